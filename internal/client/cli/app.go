package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/auth"
	"github.com/dmitrijs2005/fieldsync/internal/client/client"
	"github.com/dmitrijs2005/fieldsync/internal/client/config"
	"github.com/dmitrijs2005/fieldsync/internal/client/connectivity"
	"github.com/dmitrijs2005/fieldsync/internal/client/progressws"
	"github.com/dmitrijs2005/fieldsync/internal/client/reconnect"
	"github.com/dmitrijs2005/fieldsync/internal/client/remote"
	"github.com/dmitrijs2005/fieldsync/internal/client/services"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
)

// App owns every long-lived component of the client.
type App struct {
	config *config.Config
	log    logging.Logger

	repos   *client.Repositories
	session *auth.Session
	prober  *client.GRPCClient
	records *remote.PostgresRecordStore

	queue   *services.QueueService
	sync    *services.SyncService
	monitor *connectivity.Monitor
	trigger *reconnect.Trigger

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local store and wires the remote collaborators. Remote
// endpoints are not contacted here; an unreachable backend only keeps the
// client offline.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	a, err := wireApp(ctx, c, log, repos)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}
	return a, nil
}

func wireApp(ctx context.Context, c *config.Config, log logging.Logger, repos *client.Repositories) (*App, error) {
	session := auth.NewSession(repos.Metadata)
	if err := session.Restore(ctx); err != nil {
		return nil, err
	}

	prober, err := client.NewGRPCClient(c.ServerEndpointAddr, session)
	if err != nil {
		return nil, err
	}

	blobs, err := remote.NewS3BlobStore(ctx, remote.S3Config{
		BaseEndpoint: c.S3BaseEndpoint,
		Region:       c.S3Region,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		MaxAttempts:  c.S3MaxAttempts,
	})
	if err != nil {
		_ = prober.Close()
		return nil, err
	}

	records, err := remote.NewPostgresRecordStore(c.RecordsDSN)
	if err != nil {
		_ = prober.Close()
		return nil, err
	}

	monitor, err := connectivity.NewMonitor(ctx, repos.Metadata, log)
	if err != nil {
		_ = prober.Close()
		_ = records.Close()
		return nil, err
	}

	gate := remote.NewSessionGate(session, blobs, records)
	uploaders := services.DefaultUploaders(gate, services.Buckets{Media: c.MediaBucket, Voice: c.VoiceBucket})

	a := &App{
		config:  c,
		log:     log,
		repos:   repos,
		session: session,
		prober:  prober,
		records: records,
		monitor: monitor,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	a.queue = services.NewQueueService(repos.Artifacts, session)
	a.sync = services.NewSyncService(repos.Artifacts, uploaders, log)
	a.trigger = reconnect.New(a.sync, a.queue, log, c.SettleDelay)
	return a, nil
}

// Close releases the remote connections and the local store.
func (a *App) Close() error {
	var errs []error
	if a.prober != nil {
		errs = append(errs, a.prober.Close())
	}
	if a.records != nil {
		errs = append(errs, a.records.Close())
	}
	if a.repos != nil {
		errs = append(errs, a.repos.Close())
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	_, err := a.session.OwnerID()
	return err == nil
}

// statusLine is shown in the prompt.
func (a *App) statusLine() string {
	mode := a.monitor.State().String()
	if a.sync.Running() {
		mode += ", syncing"
	}
	return mode
}

// Run starts the background workers and blocks in the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	unsubscribe := a.sync.Subscribe(newProgressPrinter(a.out, isTerminal(int(os.Stdout.Fd()))).Print)
	defer unsubscribe()

	detach := a.trigger.Attach(a.monitor)
	defer detach()

	wg.Add(2)
	go func() {
		defer wg.Done()
		a.monitor.Watch(ctx, a.prober, a.config.OnlineCheckInterval)
	}()
	go func() {
		defer wg.Done()
		a.trigger.Run(ctx)
	}()

	if a.config.ProgressAddr != "" {
		srv, err := progressws.Start(a.config.ProgressAddr, a.sync, a.log)
		if err != nil {
			cancel()
			wg.Wait()
			return err
		}
		a.log.Info(ctx, "progress feed listening", "addr", srv.Addr())
		defer func() {
			stopCtx, stop := context.WithTimeout(context.Background(), 3*time.Second)
			defer stop()
			_ = srv.Stop(stopCtx)
		}()
	}

	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in. Use 'login' to provide an access token.")
	}

	runREPL(ctx, a, a.statusLine, a.reader)

	cancel()
	wg.Wait()
	return nil
}
