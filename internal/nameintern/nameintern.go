// Package nameintern caches resolved qualified names so a parser does
// not re-allocate the same strings for every occurrence of a repeated
// element or attribute name in a large document.
//
// The cache is a fixed-capacity github.com/golang/groupcache/lru.Cache
// guarded by a mutex, keyed by a struct built from the inputs, the same
// shape as a compiled-expression cache but holding a resolved name
// triple instead of an AST.
package nameintern

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// Resolved is a namespace-resolved name: the qualified name as it
// appeared in the document, split into prefix and local name, with its
// namespace URI attached.
type Resolved struct {
	Prefix        string
	LocalName     string
	QualifiedName string
	NamespaceURI  string
}

// Cache interns Resolved values keyed by (prefix, localName,
// namespaceURI). Each Reader constructs and owns its own Cache
// (New is called once per Reader); the mutex guards against concurrent
// access to that single instance, though a Reader is single-threaded
// and never actually exercises it from more than one goroutine.
type Cache struct {
	mu  sync.RWMutex
	lru *lru.Cache
}

// New returns a Cache holding at most capacity entries, evicting least
// recently used once full.
func New(capacity int) *Cache {
	return &Cache{lru: lru.New(capacity)}
}

type key struct {
	prefix, localName, namespaceURI string
}

// Intern returns a cached Resolved for (prefix, localName, namespaceURI)
// if one exists; otherwise it builds, caches, and returns one using
// build.
func (c *Cache) Intern(prefix, localName, namespaceURI string, build func() Resolved) Resolved {
	k := key{prefix, localName, namespaceURI}

	c.mu.RLock()
	if v, ok := c.lru.Get(k); ok {
		c.mu.RUnlock()
		return v.(Resolved)
	}
	c.mu.RUnlock()

	r := build()

	c.mu.Lock()
	c.lru.Add(k, r)
	c.mu.Unlock()

	return r
}
