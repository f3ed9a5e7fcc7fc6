package v2

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/poolescrow/poold/api/v2/service"
)

const shutdownTimeout = 5 * time.Second

// Run serves the read API on addr until ctx is done
func Run(ctx context.Context, srv *service.Service, addr string) error {
	host, err := listenHost(addr)
	if err != nil {
		return err
	}

	handler := handlers.CompressHandler(
		handlers.CORS(
			handlers.AllowedOrigins([]string{"*"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		)(srv.Handlers()),
	)

	server := &http.Server{
		Addr:              host,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "api server")
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// listenHost accepts both tcp://host:port and host:port forms
func listenHost(addr string) (string, error) {
	if !strings.Contains(addr, "://") {
		return addr, nil
	}

	u, err := url.Parse(addr)
	if err != nil {
		return "", errors.Wrapf(err, "parse api address %q", addr)
	}

	return u.Host, nil
}
