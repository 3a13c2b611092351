/* store.go
 * Contains the Store interface the registry persists through. Two implementations
 * exist: FileStore (JSON files, the default) and MongoStore. The methods for each
 * live in file_store.go and mongo_store.go
 * Authors: Zachary Bower
 */

package store

// Interface defines the persistence operations the tournament registry needs.
// Save must be atomic enough that a crash mid-write leaves the previous valid
// record intact; Archive moves a record out of active storage without deleting it
type Interface interface {
	Save(record *EventRecord) error
	LoadAll() ([]*EventRecord, error)
	Archive(id string) error
}
