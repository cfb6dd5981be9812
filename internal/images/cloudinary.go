// Package images manages product pictures hosted on Cloudinary.
package images

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/go-faster/errors"
)

type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, errors.Wrap(err, "init cloudinary")
	}
	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return errors.Wrapf(err, "destroy %s", publicID)
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	if res.Result != "ok" {
		return errors.Errorf("destroy %s: %s", publicID, res.Result)
	}
	return nil
}
