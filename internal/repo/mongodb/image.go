package mongodb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nguyentranbao-ct/product-catalog/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ImageStore keeps uploaded product images and hands out public URLs for them.
type ImageStore interface {
	Upload(ctx context.Context, upload models.Upload) (string, error)
	Open(ctx context.Context, id string) (*models.StoredImage, error)
}

type ImageStoreOptions struct {
	Bucket        string
	PublicBaseURL string
	MaxBytes      int64
}

const defaultMaxImageBytes = 5 << 20

type gridFSImageStore struct {
	bucket  *gridfs.Bucket
	baseURL string
	maxSize int64
}

func NewImageStore(db *DB, opts ImageStoreOptions) (ImageStore, error) {
	bucket, err := gridfs.NewBucket(db.Database, options.GridFSBucket().SetName(opts.Bucket))
	if err != nil {
		return nil, fmt.Errorf("failed to open gridfs bucket: %w", err)
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxImageBytes
	}
	return &gridFSImageStore{
		bucket:  bucket,
		baseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
		maxSize: opts.MaxBytes,
	}, nil
}

func (s *gridFSImageStore) Upload(ctx context.Context, upload models.Upload) (string, error) {
	if upload.Content == nil {
		return "", models.ErrNoFileUploaded
	}
	if upload.Size > s.maxSize {
		return "", models.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(upload.Content, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return "", models.ErrNoFileUploaded
	}
	if int64(len(data)) > s.maxSize {
		return "", models.ErrFileTooLarge
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", models.ErrNotAnImage
	}

	filename := path.Base(upload.Filename)
	if filename == "." || filename == "/" {
		filename = "image" + mtype.Extension()
	}

	id, err := s.bucket.UploadFromStream(filename, bytes.NewReader(data),
		options.GridFSUpload().SetMetadata(bson.M{
			"contentType": mtype.String(),
		}))
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return s.imageURL(id), nil
}

func (s *gridFSImageStore) Open(ctx context.Context, id string) (*models.StoredImage, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidImageID
	}

	stream, err := s.bucket.OpenDownloadStream(oid)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, models.ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	file := stream.GetFile()
	contentType, ok := file.Metadata.Lookup("contentType").StringValueOK()
	if !ok {
		contentType = "application/octet-stream"
	}

	return &models.StoredImage{
		Filename:    file.Name,
		ContentType: contentType,
		Size:        file.Length,
		Content:     stream,
	}, nil
}

func (s *gridFSImageStore) imageURL(id primitive.ObjectID) string {
	return s.baseURL + "/api/images/" + id.Hex()
}
