package port

import "context"

// Desktop opens files with the user's desktop environment.
type Desktop interface {
	// OpenPath opens the file with its default application.
	OpenPath(ctx context.Context, path string) error
	// ShowItemInFolder reveals the file in the file manager.
	ShowItemInFolder(ctx context.Context, path string) error
}
