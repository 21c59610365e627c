package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	full := &Config{Server: DefaultServerConfig(), Site: DefaultSiteConfig()}
	if err := full.Validate(); err != nil {
		t.Fatalf("complete config should validate, got: %v", err)
	}

	noServer := &Config{Site: DefaultSiteConfig()}
	if err := noServer.Validate(); err == nil {
		t.Error("config without server_config should be rejected")
	}

	noSite := &Config{Server: DefaultServerConfig()}
	if err := noSite.Validate(); err == nil {
		t.Error("config without site_config should be rejected")
	}
}

func TestServerAPI_ConfigRejectsMissingSections(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	config := &Config{Server: DefaultServerConfig(), Site: DefaultSiteConfig()}
	api := NewServerAPI(config, make(chan string, 1), nil, logger)

	// A payload that nulls out site_config must not replace the live config.
	body := `{"server_config": {"site_addr": ":1"}, "site_config": null}`
	req := httptest.NewRequest(http.MethodPut, "/api/server/config", strings.NewReader(body))
	rec := httptest.NewRecorder()
	api.handleConfig(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if config.Site == nil {
		t.Fatal("live config was replaced by an invalid payload")
	}
	if config.Server.SiteAddr == ":1" {
		t.Error("live config was partially updated by a rejected payload")
	}
}
