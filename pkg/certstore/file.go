package certstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileStore implements Store on a shared filesystem volume using the
// {base}/{domain}/{fullchain.pem,privkey.pem} path contract. The base
// directory is injected so tests can point it at a temporary directory.
type FileStore struct {
	base     string
	debounce time.Duration
	logger   *slog.Logger
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithDebounce sets the quiet period applied to change notifications.
// A renewal replaces both bundle files back to back; debouncing folds
// the burst into a single ChangeEvent so downstream consumers trigger
// exactly one reload per renewal.
func WithDebounce(d time.Duration) FileStoreOption {
	return func(s *FileStore) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// NewFileStore creates a filesystem-backed store rooted at base.
func NewFileStore(base string, opts ...FileStoreOption) (*FileStore, error) {
	if base == "" {
		return nil, fmt.Errorf("certificate base directory is required")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create certificate base directory: %w", err)
	}

	s := &FileStore{
		base:     base,
		debounce: 500 * time.Millisecond,
		logger:   slog.Default().With("component", "certstore"),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// DomainDir returns the directory holding the bundle for a domain.
func (s *FileStore) DomainDir(domain string) string {
	return filepath.Join(s.base, domain)
}

// CertPath returns the chain file path for a domain.
func (s *FileStore) CertPath(domain string) string {
	return filepath.Join(s.base, domain, CertFileName)
}

// KeyPath returns the private key file path for a domain.
func (s *FileStore) KeyPath(domain string) string {
	return filepath.Join(s.base, domain, KeyFileName)
}

// Exists reports whether both bundle files are present on disk.
func (s *FileStore) Exists(domain string) bool {
	if _, err := os.Stat(s.CertPath(domain)); err != nil {
		return false
	}
	if _, err := os.Stat(s.KeyPath(domain)); err != nil {
		return false
	}
	return true
}

// ModTime returns the modification time of the chain file.
func (s *FileStore) ModTime(domain string) (time.Time, error) {
	info, err := os.Stat(s.CertPath(domain))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, fmt.Errorf("failed to stat certificate for %s: %w", domain, err)
	}
	return info.ModTime(), nil
}

// Load reads the bundle for a domain and parses the leaf certificate
// for its validity window.
func (s *FileStore) Load(domain string) (*Bundle, error) {
	certPath := s.CertPath(domain)
	keyPath := s.KeyPath(domain)

	chainPEM, err := os.ReadFile(certPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read certificate for %s: %w", domain, err)
	}
	if _, err := os.Stat(keyPath); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat private key for %s: %w", domain, err)
	}

	leaf, err := ParseLeaf(chainPEM)
	if err != nil {
		return nil, fmt.Errorf("invalid certificate for %s: %w", domain, err)
	}

	info, err := os.Stat(certPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat certificate for %s: %w", domain, err)
	}

	return &Bundle{
		Domain:    domain,
		CertPath:  certPath,
		KeyPath:   keyPath,
		NotBefore: leaf.NotBefore,
		NotAfter:  leaf.NotAfter,
		ModTime:   info.ModTime(),
	}, nil
}

// Write replaces the bundle for a domain. Each file is written to a
// temporary name in the same directory and renamed into place, so a
// reader only ever observes either the old or the new content.
func (s *FileStore) Write(domain string, chainPEM, keyPEM []byte) error {
	dir := s.DomainDir(domain)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create domain directory for %s: %w", domain, err)
	}

	// Key first: the watcher keys its notifications off the chain file,
	// so by the time a change event fires both files are in place.
	if err := writeAtomic(s.KeyPath(domain), keyPEM, 0o600); err != nil {
		return fmt.Errorf("failed to write private key for %s: %w", domain, err)
	}
	if err := writeAtomic(s.CertPath(domain), chainPEM, 0o644); err != nil {
		return fmt.Errorf("failed to write certificate for %s: %w", domain, err)
	}

	return nil
}

func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// Watch subscribes to filesystem notifications for the domain's bundle.
// The domain directory must already exist; callers poll with Exists
// until the first appearance and only then start watching. Events are
// debounced so the two-file replacement of a renewal yields a single
// ChangeEvent.
func (s *FileStore) Watch(ctx context.Context, domain string) (<-chan ChangeEvent, error) {
	dir := s.DomainDir(domain)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	// Watch the directory, not the file: renewals rename a temp file
	// over the bundle, which replaces the inode a file-level watch
	// would be pinned to.
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	events := make(chan ChangeEvent, 1)

	// The debounce timer fires on its own goroutine, so its callback
	// must never send on events directly: the watch goroutine below
	// closes that channel on exit. fire is buffered and never closed,
	// which makes the callback safe during shutdown; the watch
	// goroutine owns the only send on events.
	fire := make(chan struct{}, 1)
	debounce := newDebouncer(s.debounce)

	go func() {
		defer close(events)
		defer watcher.Close()
		defer debounce.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case <-fire:
				select {
				case events <- ChangeEvent{Domain: domain, At: time.Now()}:
				case <-ctx.Done():
					return
				}

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !s.shouldProcessEvent(domain, event) {
					continue
				}

				s.logger.Debug("bundle change detected",
					"domain", domain,
					"path", event.Name,
					"op", event.Op.String(),
				)

				debounce.Trigger(func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Surface the error and let the consumer fall back to
				// polling rather than watching a broken subscription.
				s.logger.Error("certificate watch error", "domain", domain, "error", err)
				return
			}
		}
	}()

	return events, nil
}

// shouldProcessEvent filters directory noise down to replacements of
// the bundle files themselves.
func (s *FileStore) shouldProcessEvent(domain string, event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}

	name := filepath.Base(event.Name)
	return name == CertFileName || name == KeyFileName
}
