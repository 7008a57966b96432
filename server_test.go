package main

import (
	"net/http"
	"testing"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/config"
)

func TestHTTPServerWriteTimeoutOutlivesRequestTimeout(t *testing.T) {
	srv := newHTTPServer(config.DefaultConfig(), http.NewServeMux())

	if srv.WriteTimeout <= requestTimeout {
		t.Errorf("WriteTimeout = %v, must exceed the %v request timeout", srv.WriteTimeout, requestTimeout)
	}
	if srv.ReadTimeout <= 0 || srv.IdleTimeout <= 0 {
		t.Errorf("read/idle timeouts unset: read=%v idle=%v", srv.ReadTimeout, srv.IdleTimeout)
	}
}
