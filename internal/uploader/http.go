package uploader

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/pulsekeeper/internal/common"
	"github.com/dmitrijs2005/pulsekeeper/internal/models"
)

// HTTP posts each reading as a JSON document to a fixed URL.
type HTTP struct {
	url    string
	seal   []byte
	client *http.Client
}

// NewHTTP returns an uploader posting to url. A non-nil sealKey turns on
// payload sealing.
func NewHTTP(url string, sealKey []byte) *HTTP {
	return &HTTP{
		url:    url,
		seal:   sealKey,
		client: &http.Client{},
	}
}

func (u *HTTP) Upload(ctx context.Context, r models.Reading) error {
	body, err := encodeBody(r, u.seal)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", common.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return &common.StatusError{Code: resp.StatusCode}
	}
	return nil
}
