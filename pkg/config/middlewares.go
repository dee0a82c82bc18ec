package config

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4/middleware"
)

// CORSConfig allows the comma separated CORS_ORIGINS to call the API.
func (c *Config) CORSConfig() middleware.CORSConfig {
	origins := []string{}
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	}
}
