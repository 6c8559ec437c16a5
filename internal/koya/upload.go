package koya

import (
	"context"
	"errors"

	"github.com/kozaktomas/koya-pay/internal/constants"
	"github.com/kozaktomas/koya-pay/internal/media"
)

// Upload sends a photo to the service for recognition and returns the server message.
func (k *Koya) Upload(ctx context.Context, file media.FileHandle) (*MessageResponse, error) {
	if file.IsZero() {
		return nil, errors.New("no file to upload")
	}
	return doMultipart[MessageResponse](ctx, k, "upload", k.endpoints.Upload, constants.UploadFieldName, file)
}

// MatchFace sends a photo to the matcher and returns the candidate matches in server order.
// An empty match set is returned as an empty, non-nil slice.
func (k *Koya) MatchFace(ctx context.Context, file media.FileHandle) ([]MatchResult, error) {
	if file.IsZero() {
		return nil, errors.New("no photo to match")
	}
	result, err := doMultipart[[]MatchResult](ctx, k, "match", k.endpoints.Match, constants.MatchFieldName, file)
	if err != nil {
		return nil, err
	}
	if *result == nil {
		return []MatchResult{}, nil
	}
	return *result, nil
}
