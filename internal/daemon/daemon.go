package daemon

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"s3transport/internal/transport"

	"github.com/sirupsen/logrus"
)

const (
	serverReadHeaderTimeout = 5 * time.Second
	serverReadTimeout       = 10 * time.Second
	serverWriteTimeout      = 30 * time.Second
	serverIdleTimeout       = 60 * time.Second
	serverMaxHeaderBytes    = 1 << 20
)

// ObjectTransport is what the daemon serves. transport.ObjectTransport
// satisfies it.
type ObjectTransport interface {
	transport.Transport
	CheckObjects(ctx context.Context, ids []string) (map[string]bool, error)
	Stats() transport.Stats
}

type Daemon struct {
	transport ObjectTransport
	log       *logrus.Logger

	mu           sync.Mutex
	ipcAuthToken string
	ipcAddr      string
	handler      http.Handler
}

func New(tr ObjectTransport, logger *logrus.Logger) *Daemon {
	if logger == nil {
		logger = logrus.New()
	}
	d := &Daemon{
		transport: tr,
		log:       logger,
		ipcAddr:   DefaultIPCAddress,
	}
	d.handler = d.withRequestLogging(d.newHandler())
	return d
}

func (d *Daemon) SetIPCAddress(addr string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if addr != "" {
		d.ipcAddr = addr
	}
}

func (d *Daemon) SetIPCAuthToken(token string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ipcAuthToken = token
}

func (d *Daemon) Handler() http.Handler {
	return d.handler
}

func (d *Daemon) Run(ctx context.Context) error {
	srv := d.newHTTPServer()
	d.log.WithFields(logrus.Fields{"addr": srv.Addr, "transport": d.transport.Name()}).Info("s3transportd listening")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (d *Daemon) newHTTPServer() *http.Server {
	d.mu.Lock()
	addr := d.ipcAddr
	d.mu.Unlock()

	return &http.Server{
		Addr:              addr,
		Handler:           d.Handler(),
		ReadHeaderTimeout: serverReadHeaderTimeout,
		ReadTimeout:       serverReadTimeout,
		WriteTimeout:      serverWriteTimeout,
		IdleTimeout:       serverIdleTimeout,
		MaxHeaderBytes:    serverMaxHeaderBytes,
	}
}
