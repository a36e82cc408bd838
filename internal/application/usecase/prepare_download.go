package usecase

import (
	"context"
	"path/filepath"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/domain/download"
	"github.com/bnema/multitab/internal/logging"
)

// PrepareDownloadInput contains the inputs for preparing a download destination.
type PrepareDownloadInput struct {
	// SuggestedFilename is the name the engine proposes (Content-Disposition or URL).
	SuggestedFilename string
	// SourceURL is used when no filename was suggested.
	SourceURL string
	// MimeType is used to add a missing extension.
	MimeType string
	// DownloadDir is the directory where downloads should be saved.
	DownloadDir string
}

// PrepareDownloadOutput contains the resolved download destination.
type PrepareDownloadOutput struct {
	// Filename is the sanitized, safe filename to use.
	Filename string
	// DestinationPath is the full default path offered to the user.
	DestinationPath string
}

// PrepareDownloadUseCase computes the default save path of a new download.
type PrepareDownloadUseCase struct {
	fs port.FileSystem
}

// NewPrepareDownloadUseCase creates a new PrepareDownloadUseCase.
// If fs is nil, filename deduplication is disabled.
func NewPrepareDownloadUseCase(fs port.FileSystem) *PrepareDownloadUseCase {
	return &PrepareDownloadUseCase{fs: fs}
}

// Execute resolves the download filename and destination path.
func (u *PrepareDownloadUseCase) Execute(ctx context.Context, input PrepareDownloadInput) *PrepareDownloadOutput {
	log := logging.FromContext(ctx)

	safeName := download.ResolveFilename(input.SuggestedFilename, input.SourceURL, input.MimeType)

	if u.fs != nil && input.DownloadDir != "" {
		if err := u.fs.EnsureDir(ctx, input.DownloadDir); err != nil {
			log.Warn().Err(err).Str("dir", input.DownloadDir).Msg("failed to create download directory")
		}
		safeName = download.UniqueFilename(input.DownloadDir, safeName, func(path string) bool {
			exists, err := u.fs.Exists(ctx, path)
			return err == nil && exists
		})
	}

	destPath := safeName
	if input.DownloadDir != "" {
		destPath = filepath.Join(input.DownloadDir, safeName)
	}

	log.Debug().
		Str("suggested", input.SuggestedFilename).
		Str("sanitized", safeName).
		Str("destPath", destPath).
		Msg("prepared download destination")

	return &PrepareDownloadOutput{
		Filename:        safeName,
		DestinationPath: destPath,
	}
}
