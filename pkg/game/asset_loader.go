package game

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/decker502/arportal/pkg/config"
	"golang.org/x/sync/singleflight"
)

// ErrUnknownAsset 资源清单中没有该 URI
var ErrUnknownAsset = errors.New("unknown asset")

// RetryBackoff 加载失败后，Request 至少等待这么久才再次尝试
const RetryBackoff = 2 * time.Second

// loadFailure 最近一次加载失败
type loadFailure struct {
	err error
	at  time.Time
}

// AssetLoader 异步把资源 URI 解析为可实例化的模板
//
// Request 发起后台加载（即发即弃），Get 在加载完成前返回未就绪。
// 帧线程只调用 Request/Get，不会阻塞；同一 URI 的并发加载由 singleflight 合并。
// 加载失败会被记录，距失败超过 RetryBackoff 后的 Request 才会重试。
type AssetLoader struct {
	manifest *config.AssetManifest
	group    singleflight.Group

	mu       sync.RWMutex
	ready    map[string]*Template
	inflight map[string]bool
	failures map[string]loadFailure

	build func(uri string, spec config.AssetSpec) (*Template, error)
	now   func() time.Time
}

// NewAssetLoader 创建资源加载器
func NewAssetLoader(manifest *config.AssetManifest) *AssetLoader {
	return &AssetLoader{
		manifest: manifest,
		ready:    make(map[string]*Template),
		inflight: make(map[string]bool),
		failures: make(map[string]loadFailure),
		build:    buildTemplate,
		now:      time.Now,
	}
}

// Request 在后台加载资源
//
// 已就绪、正在加载或距上次失败不足 RetryBackoff 时直接返回。
func (l *AssetLoader) Request(uri string) {
	l.mu.Lock()
	if _, ok := l.ready[uri]; ok || l.inflight[uri] {
		l.mu.Unlock()
		return
	}
	if f, ok := l.failures[uri]; ok && l.now().Sub(f.at) < RetryBackoff {
		l.mu.Unlock()
		return
	}
	l.inflight[uri] = true
	l.mu.Unlock()

	go func() {
		if _, err := l.Load(uri); err != nil {
			log.Printf("[AssetLoader] Failed to load %s: %v", uri, err)
		}
	}()
}

// Load 同步加载资源，成功后缓存；不受重试间隔限制
func (l *AssetLoader) Load(uri string) (*Template, error) {
	if tpl, ok := l.Get(uri); ok {
		return tpl, nil
	}

	v, err, _ := l.group.Do(uri, func() (interface{}, error) {
		spec, ok := l.manifest.Lookup(uri)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, uri)
		}
		tpl, err := l.build(uri, spec)
		if err != nil {
			return nil, fmt.Errorf("failed to build template %s: %w", uri, err)
		}

		// 在 singleflight 释放 key 之前发布结果，后来的调用者一定能从 Get 命中
		l.mu.Lock()
		l.ready[uri] = tpl
		delete(l.failures, uri)
		l.mu.Unlock()
		log.Printf("[AssetLoader] Loaded %s (%s, r=%.3fm)", uri, tpl.Spec.Shape, tpl.Spec.Radius)
		return tpl, nil
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inflight, uri)
	if err != nil {
		l.failures[uri] = loadFailure{err: err, at: l.now()}
		return nil, err
	}
	return v.(*Template), nil
}

// Get 返回已就绪的模板
func (l *AssetLoader) Get(uri string) (*Template, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	tpl, ok := l.ready[uri]
	return tpl, ok
}

// IsReady 资源是否已就绪
func (l *AssetLoader) IsReady(uri string) bool {
	_, ok := l.Get(uri)
	return ok
}

// Err 返回资源最近一次加载失败的原因
func (l *AssetLoader) Err(uri string) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.failures[uri].err
}
