package backup

import "context"

// CloudUploader pushes an encoded snapshot to a remote sync service.
// Cloud upload is strictly best-effort: the Service logs failures and
// never lets them affect a local backup.
type CloudUploader interface {
	Upload(ctx context.Context, name string, data []byte) error
}

// NopUploader discards every upload. It is the default when no cloud
// integration is configured.
type NopUploader struct{}

var _ CloudUploader = NopUploader{}

func (NopUploader) Upload(ctx context.Context, name string, data []byte) error {
	return nil
}
