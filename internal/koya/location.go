package koya

import (
	"context"
	"errors"
	"net/url"

	"github.com/kozaktomas/koya-pay/internal/config"
)

// UpdateLocation sets the location of a matched photo.
func (k *Koya) UpdateLocation(ctx context.Context, id MatchID, location string) (*MessageResponse, error) {
	if id == "" {
		return nil, errors.New("match id is required")
	}
	if location == "" {
		return nil, errors.New("location is required")
	}

	ep := k.endpoints.UpdateLocation
	var body any
	switch ep.Body {
	case config.BodyFaceIDLocation:
		body = faceLocationRequest{FaceID: string(id), Location: location}
	default:
		body = locationRequest{Location: location}
	}

	return doJSON[MessageResponse](ctx, k, "update_location", ep, url.PathEscape(string(id)), body)
}
