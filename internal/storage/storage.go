// Package storage hosts media files on public cloud storage so that
// URL-ingesting destinations can fetch them at publish time.
package storage

import "context"

// MediaHost uploads a local media file to publicly reachable storage and
// returns its URL. The scheduler uses it, when configured, to snapshot a
// public media URL into each job's payload.
type MediaHost interface {
	Upload(ctx context.Context, localPath string) (string, error)
}
