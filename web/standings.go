/* standings.go
 * Contains the standings HTTP handler: a read-only plain text view of a running
 * tournament, handy for sharing outside Discord
 * Authors: Zachary Bower
 */

package web

import (
	"fmt"
	"net/http"
	"strings"
)

// StandingsHandler serves GET /standings?id=<tournament id> as plain text
// Preconditions: Receives the response writer and request
// Postconditions: Writes the rendered standings, or 404 for an unknown id
func (s *Server) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id parameter", http.StatusBadRequest)
		return
	}
	standings, err := s.api.StandingsFor(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	// The Discord rendering wraps the table in a code fence; strip it for plain text
	standings = strings.ReplaceAll(standings, "```\n", "")
	standings = strings.TrimSuffix(standings, "```")
	fmt.Fprint(w, standings)
}
