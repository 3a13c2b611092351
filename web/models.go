/* models.go
 * Contains the config and server structs for the read-only HTTP surface
 * Authors: Zachary Bower
 */

package web

import (
	api "tabletop-bot/tournament/api"
)

// Config holds the server configuration
type Config struct {
	Addr string
	API  *api.API
}

// Server holds the handler dependencies
type Server struct {
	api *api.API
}
