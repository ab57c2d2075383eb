package mirror

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"campus-dashboard/internal/storage"
)

// Manager archives media uploaded through the gateway to object storage in
// the background, so forwarding to the backend is never delayed by the
// mirror.
type Manager interface {
	Start(ctx context.Context) error
	Shutdown()
	Enqueue(item Item) error
	Objects(ctx context.Context) ([]storage.ObjectInfo, error)
	Purge(ctx context.Context) error
}

// Item is one media blob queued for archiving.
type Item struct {
	Name        string
	ContentType string
	Body        []byte
	QueuedAt    time.Time
}

type Config struct {
	Bucket        string
	KeyPrefix     string
	MaxConcurrent int
	QueueSize     int
	UploadTimeout time.Duration
	Logger        *logrus.Logger
}

type manager struct {
	cfg     Config
	storage storage.Service

	queue  chan Item
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	started bool
}

func NewManager(cfg Config, store storage.Service) Manager {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.UploadTimeout == 0 {
		cfg.UploadTimeout = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &manager{
		cfg:     cfg,
		storage: store,
		queue:   make(chan Item, cfg.QueueSize),
	}
}

func (m *manager) Start(ctx context.Context) error {
	if m.cfg.Bucket == "" {
		return fmt.Errorf("mirror bucket is required")
	}

	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return fmt.Errorf("mirror manager already started")
	}
	m.started = true
	m.mu.Unlock()

	m.ctx, m.cancel = context.WithCancel(ctx)
	for i := 0; i < m.cfg.MaxConcurrent; i++ {
		m.wg.Add(1)
		go m.worker()
	}
	m.cfg.Logger.Infof("media mirror started, bucket: %s", m.cfg.Bucket)
	return nil
}

// Shutdown stops accepting new items and waits for in-flight uploads. The
// queue is closed under the same lock Enqueue sends under, so a racing
// Enqueue either lands before the close or sees started == false.
func (m *manager) Shutdown() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	close(m.queue)
	m.mu.Unlock()

	m.wg.Wait()
	if m.cancel != nil {
		m.cancel()
	}
	m.cfg.Logger.Info("media mirror stopped")
}

// Enqueue queues an item without blocking; a full queue drops the item,
// since the mirror is best-effort. The send stays under the lock so it
// cannot interleave with Shutdown closing the queue.
func (m *manager) Enqueue(item Item) error {
	if item.QueuedAt.IsZero() {
		item.QueuedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return fmt.Errorf("mirror manager not started")
	}
	select {
	case m.queue <- item:
		return nil
	default:
		return fmt.Errorf("mirror queue full, dropping %s", item.Name)
	}
}

// Objects lists everything archived under the mirror's key prefix.
func (m *manager) Objects(ctx context.Context) ([]storage.ObjectInfo, error) {
	return m.storage.ListObjects(ctx, m.cfg.Bucket, strings.Trim(m.cfg.KeyPrefix, "/"))
}

// Purge removes every archived object under the key prefix. It refuses to
// run without a prefix so a misconfiguration cannot wipe a shared bucket.
func (m *manager) Purge(ctx context.Context) error {
	prefix := strings.Trim(m.cfg.KeyPrefix, "/")
	if prefix == "" {
		return fmt.Errorf("purge requires a key prefix")
	}
	return m.storage.DeletePrefix(ctx, m.cfg.Bucket, prefix)
}

func (m *manager) worker() {
	defer m.wg.Done()
	for item := range m.queue {
		if m.ctx.Err() != nil {
			return
		}
		m.upload(item)
	}
}

func (m *manager) upload(item Item) {
	ctx, cancel := context.WithTimeout(m.ctx, m.cfg.UploadTimeout)
	defer cancel()

	key := m.objectKey(item)
	location, err := m.storage.UploadObject(ctx, bytes.NewReader(item.Body), storage.UploadOptions{
		Bucket:      m.cfg.Bucket,
		Key:         key,
		ContentType: item.ContentType,
	})
	if err != nil {
		m.cfg.Logger.WithError(err).Warnf("mirror upload failed: %s", item.Name)
		return
	}
	m.cfg.Logger.Debugf("mirrored %s to %s", item.Name, location)
}

func (m *manager) objectKey(item Item) string {
	name := path.Base(strings.ReplaceAll(item.Name, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		name = "upload"
	}
	prefix := strings.Trim(m.cfg.KeyPrefix, "/")
	day := item.QueuedAt.Format("2006/01/02")
	if prefix == "" {
		return path.Join(day, name)
	}
	return path.Join(prefix, day, name)
}
