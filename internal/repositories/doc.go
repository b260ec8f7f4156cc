// package repositories provides the persistence layer for build run history.
//
// Each completed build is recorded as one row in the runs table plus one row
// per resolved track in run_tracks, allowing past runs to be inspected after
// the fact. Failed tracks are not recorded; the run summary carries the
// failure count.
package repositories
