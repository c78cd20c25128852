package config

import (
	"fmt"

	"github.com/JaimeStill/mandate/pkg/formatting"
	"github.com/JaimeStill/mandate/pkg/middleware"
	"github.com/JaimeStill/mandate/pkg/openapi"
	"github.com/JaimeStill/mandate/pkg/pagination"
	"github.com/JaimeStill/mandate/pkg/settings"
)

const (
	EnvAPIBasePath      = "MANDATE_API_BASE_PATH"
	EnvAPIMaxUploadSize = "MANDATE_API_MAX_UPLOAD_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "MANDATE_CORS_ENABLED",
	Origins:          "MANDATE_CORS_ORIGINS",
	AllowedMethods:   "MANDATE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "MANDATE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "MANDATE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "MANDATE_CORS_MAX_AGE",
}

var authEnv = &middleware.AuthEnv{
	Enabled:  "MANDATE_AUTH_ENABLED",
	Issuer:   "MANDATE_AUTH_ISSUER",
	Audience: "MANDATE_AUTH_AUDIENCE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "MANDATE_OPENAPI_TITLE",
	Description: "MANDATE_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.Env{
	DefaultPageSize: "MANDATE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "MANDATE_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, auth, OpenAPI, and pagination settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Auth          middleware.AuthConfig `toml:"auth"`
	OpenAPI       openapi.Config        `toml:"openapi"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxUploadSize)
	return size
}

func (c *APIConfig) Finalize() error {
	settings.Default(&c.BasePath, "/api")
	settings.Default(&c.MaxUploadSize, "50MB")
	settings.String(&c.BasePath, EnvAPIBasePath)
	settings.String(&c.MaxUploadSize, EnvAPIMaxUploadSize)

	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

func (c *APIConfig) Merge(overlay *APIConfig) {
	settings.Overlay(&c.BasePath, overlay.BasePath)
	settings.Overlay(&c.MaxUploadSize, overlay.MaxUploadSize)

	c.CORS.Merge(&overlay.CORS)
	c.Auth.Merge(&overlay.Auth)
	c.OpenAPI.Merge(&overlay.OpenAPI)
	c.Pagination.Merge(&overlay.Pagination)
}
