// Package companion resolves which companion endpoint a client
// instance talks to.
package companion

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/boot85/idb/internal/store"
)

// ErrNotFound reports that no companion is registered for the
// requested device.
var ErrNotFound = errors.New("no companion registered")

// Info describes one resolved companion peer. Immutable once resolved;
// a client instance trusts it for its whole lifetime.
type Info struct {
	Host    string
	Port    int
	UDID    string
	IsLocal bool
}

func (i Info) Addr() string {
	return net.JoinHostPort(i.Host, strconv.Itoa(i.Port))
}

func (i Info) String() string {
	return fmt.Sprintf("companion %s (udid=%q local=%v)", i.Addr(), i.UDID, i.IsLocal)
}

// IsLoopback reports whether host points at this machine, which lets
// media uploads send bare file paths instead of archived bytes.
func IsLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

// Registry is the slice of the store the resolver needs.
type Registry interface {
	GetByUDID(udid string) (store.Companion, error)
	List() ([]store.Companion, error)
}

type Resolver struct {
	registry Registry
	logger   *logrus.Logger
}

func NewResolver(registry Registry, logger *logrus.Logger) *Resolver {
	return &Resolver{registry: registry, logger: logger}
}

// Resolve picks the companion for udid. With an empty udid the oldest
// registered companion wins. Resolution happens once per client
// instance; there is no per-call re-resolution.
func (r *Resolver) Resolve(udid string) (Info, error) {
	if udid != "" {
		c, err := r.registry.GetByUDID(udid)
		if err != nil {
			return Info{}, fmt.Errorf("%w: udid %q", ErrNotFound, udid)
		}
		return infoFor(c), nil
	}

	companions, err := r.registry.List()
	if err != nil {
		return Info{}, fmt.Errorf("listing companions: %w", err)
	}
	if len(companions) == 0 {
		return Info{}, ErrNotFound
	}
	if len(companions) > 1 {
		r.logger.Debugf("%d companions registered, using oldest", len(companions))
	}
	return infoFor(companions[0]), nil
}

func infoFor(c store.Companion) Info {
	return Info{
		Host:    c.Host,
		Port:    c.Port,
		UDID:    c.UDID,
		IsLocal: c.IsLocal,
	}
}
