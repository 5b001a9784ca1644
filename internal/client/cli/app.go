package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/okulikov/handtext/internal/backend"
	"github.com/okulikov/handtext/internal/client/config"
	"github.com/okulikov/handtext/internal/client/profile"
	"github.com/okulikov/handtext/internal/client/provider"
	"github.com/okulikov/handtext/internal/client/recognition"
	"github.com/okulikov/handtext/internal/client/session"
	"github.com/okulikov/handtext/internal/common"
	"github.com/okulikov/handtext/internal/logging"
)

// recognizePath is appended to the configured recognizer base URL.
const recognizePath = "/segment_and_recognize"

// App holds the wired client components and the interactive input reader.
type App struct {
	config   *config.Config
	log      logging.Logger
	session  *session.Manager
	profiles *profile.Store
	pipeline *recognition.Pipeline
	store    io.Closer
	reader   *bufio.Reader
}

// NewApp builds the client from cfg: it opens the backend adapter selected
// by cfg.Backend, then wires the session manager, profile store and
// recognition pipeline on top of it.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewText(os.Stderr, slog.LevelWarn)

	a := &App{config: cfg, log: log, reader: bufio.NewReader(os.Stdin)}

	be, closer, err := openBackend(ctx, cfg)
	if err != nil {
		log.Error(ctx, "error opening backend", "kind", cfg.Backend, "error", err)
		return nil, err
	}
	a.store = closer

	a.session = session.NewManager(be, be, log)
	a.profiles = profile.NewStore(be, log)

	prov := provider.NewFileProvider(a.promptImagePath)
	uploader := recognition.NewUploader(cfg.RecognizerBaseURL+recognizePath, &http.Client{Timeout: cfg.RequestTimeout})
	a.pipeline = recognition.NewPipeline(prov, uploader, log)

	return a, nil
}

// openBackend maps the configured backend kind to an adapter. Local
// stores (sqlite, postgres) sign tokens with a per-run random secret;
// tokens never leave the process in those modes.
func openBackend(ctx context.Context, cfg *config.Config) (backend.Backend, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return backend.NewMemory(), nil, nil
	case config.BackendREST:
		return backend.NewRESTClient(cfg.BackendAddr, cfg.RequestTimeout), nil, nil
	case config.BackendSQLite:
		secret, err := localTokenSecret()
		if err != nil {
			return nil, nil, err
		}
		s, err := backend.OpenSQLite(ctx, cfg.DatabaseDSN, secret)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendPostgres:
		secret, err := localTokenSecret()
		if err != nil {
			return nil, nil, err
		}
		s, err := backend.OpenPostgres(ctx, cfg.DatabaseDSN, secret)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown backend kind %q", common.ErrValidation, cfg.Backend)
	}
}

func localTokenSecret() ([]byte, error) {
	s, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Session().Status == session.Authenticated
}

// getStatus renders the prompt decoration: the signed-in email plus the
// current auth status, e.g. "(alice@example.org authenticated)".
func (a *App) getStatus() string {
	sess := a.session.Session()
	s := ""
	if sess.Email != "" {
		s = sess.Email + " "
	}
	s = s + sess.Status.String()
	return fmt.Sprintf("(%s)", s)
}

// promptImagePath is the PromptFunc handed to the file provider. An empty
// answer counts as cancellation (handled by the provider).
func (a *App) promptImagePath(ctx context.Context, source recognition.Source) (string, error) {
	prompt := "Enter path to the image file (empty line to cancel)"
	if source == recognition.Camera {
		prompt = "Enter path to the captured photo (empty line to cancel)"
	}
	return getSimpleText(a.reader, prompt, os.Stdout)
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	if a.store != nil {
		defer a.store.Close()
	}

	fmt.Println("handtext CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
