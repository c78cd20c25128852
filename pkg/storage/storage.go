// Package storage keeps uploaded guideline files in an Azure Blob Storage
// container. Azurite serves the same API for local development.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/JaimeStill/mandate/pkg/lifecycle"
)

// Blob is an open download. The caller closes Body.
type Blob struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// System is the blob container. Every key passes ValidateKey before any
// request is sent, and a missing blob yields ErrNotFound.
type System interface {
	lifecycle.ReadinessChecker
	// Start ensures the container exists once the coordinator starts.
	Start(lc *lifecycle.Coordinator) error
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	Download(ctx context.Context, key string) (*Blob, error)
	Delete(ctx context.Context, key string) error
}

type container struct {
	client *azblob.Client
	name   string
	logger *slog.Logger
	ready  atomic.Bool
}

// New builds the client only. The container is created by Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	var (
		client *azblob.Client
		err    error
	)

	if cfg.UsesCredential() {
		cred, credErr := azidentity.NewDefaultAzureCredential(nil)
		if credErr != nil {
			return nil, fmt.Errorf("azure credential: %w", credErr)
		}
		client, err = azblob.NewClient(cfg.ServiceURL, cred, nil)
	} else {
		client, err = azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("blob client: %w", err)
	}

	return &container{
		client: client,
		name:   cfg.ContainerName,
		logger: logger.With("system", "storage", "container", cfg.ContainerName),
	}, nil
}

func (c *container) Ready() bool {
	return c.ready.Load()
}

func (c *container) Start(lc *lifecycle.Coordinator) error {
	lc.Check("storage", c)

	lc.OnStartup(func() {
		_, err := c.client.CreateContainer(lc.Context(), c.name, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			c.logger.Error("container unavailable", "error", err)
			return
		}
		c.ready.Store(true)
		c.logger.Info("container ready")
	})

	return nil
}

func (c *container) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	_, err := c.client.UploadStream(ctx, c.name, key, r, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (c *container) Download(ctx context.Context, key string) (*Blob, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	resp, err := c.client.DownloadStream(ctx, c.name, key, nil)
	if err != nil {
		return nil, c.mapErr("download", key, err)
	}

	b := &Blob{Body: resp.Body}
	if resp.ContentType != nil {
		b.ContentType = *resp.ContentType
	}
	if resp.ContentLength != nil {
		b.ContentLength = *resp.ContentLength
	}
	return b, nil
}

// Delete also removes the blob's snapshots.
func (c *container) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	include := blob.DeleteSnapshotsOptionTypeInclude
	_, err := c.client.DeleteBlob(ctx, c.name, key, &blob.DeleteOptions{DeleteSnapshots: &include})
	if err != nil {
		return c.mapErr("delete", key, err)
	}
	return nil
}

func (c *container) mapErr(op, key string, err error) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s %s: %w", op, key, err)
}
