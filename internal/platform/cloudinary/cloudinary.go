// Package cloudinary hosts category images on Cloudinary.
package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"fastcart-api/internal/app"
)

const (
	deliveryHost = "res.cloudinary.com"

	// Images are bounded to 500x500 without upscaling.
	uploadTransformation = "c_limit,h_500,w_500"
)

var versionSegment = regexp.MustCompile(`^v\d+$`)

// transformationKeys are the Cloudinary URL parameter keys that may appear
// in a transformation segment.
var transformationKeys = map[string]bool{
	"a": true, "ac": true, "af": true, "ar": true, "b": true, "bo": true,
	"br": true, "c": true, "co": true, "cs": true, "d": true, "dl": true,
	"dn": true, "dpr": true, "du": true, "e": true, "eo": true, "f": true,
	"fl": true, "fn": true, "fps": true, "g": true, "h": true, "if": true,
	"ki": true, "l": true, "o": true, "p": true, "pg": true, "q": true,
	"r": true, "so": true, "sp": true, "t": true, "u": true, "vc": true,
	"vs": true, "w": true, "x": true, "y": true, "z": true,
}

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type Client struct {
	api       uploadAPI
	cloudName string
	folder    string
}

func New(cloudName, apiKey, apiSecret, folder string) (*Client, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are incomplete")
	}
	c, err := cld.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary failed: %w", err)
	}
	return &Client{api: &c.Upload, cloudName: cloudName, folder: folder}, nil
}

func (c *Client) Upload(ctx context.Context, file app.MediaFile) (string, error) {
	res, err := c.api.Upload(ctx, file.Body, uploader.UploadParams{
		Folder:         c.folder,
		Transformation: uploadTransformation,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload rejected: %s", res.Error.Message)
	}
	if res.SecureURL != "" {
		return res.SecureURL, nil
	}
	if res.URL != "" {
		return res.URL, nil
	}
	return "", errors.New("cloudinary upload returned no url")
}

func (c *Client) Delete(ctx context.Context, publicID string) error {
	res, err := c.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s failed: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %s rejected: %s", publicID, res.Error.Message)
	}
	if res.Result != "ok" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, res.Result)
	}
	return nil
}

// PublicID extracts the public id from a delivery URL such as
// https://res.cloudinary.com/<cloud>/image/upload/c_limit,w_500/v171/fastcart/abc.jpg
// which yields "fastcart/abc".
func (c *Client) PublicID(imageURL string) (string, bool) {
	return publicIDFromURL(imageURL, c.cloudName)
}

func publicIDFromURL(imageURL, cloudName string) (string, bool) {
	u, err := url.Parse(imageURL)
	if err != nil || u.Host != deliveryHost {
		return "", false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if cloudName != "" && (len(segments) == 0 || segments[0] != cloudName) {
		return "", false
	}

	uploadAt := -1
	for i, seg := range segments {
		if seg == "upload" {
			uploadAt = i
			break
		}
	}
	if uploadAt < 0 {
		return "", false
	}
	rest := segments[uploadAt+1:]

	// Layout after "upload": [transformation/...][v<digits>/]<public id>.
	for len(rest) > 1 && isTransformation(rest[0]) {
		rest = rest[1:]
	}
	if len(rest) > 1 && versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return "", false
	}

	last := rest[len(rest)-1]
	rest[len(rest)-1] = strings.TrimSuffix(last, path.Ext(last))
	id := strings.Join(rest, "/")
	if id == "" {
		return "", false
	}
	return id, true
}

func isTransformation(segment string) bool {
	for _, token := range strings.Split(segment, ",") {
		key, value, ok := strings.Cut(token, "_")
		if !ok || value == "" || !transformationKeys[key] {
			return false
		}
	}
	return true
}
