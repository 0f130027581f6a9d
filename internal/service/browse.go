package service

import (
	"context"
	"log/slog"
	"sync"

	"dossier/internal/domain/models"
)

// RootCrumbName labels the first trail entry of every navigation.
const RootCrumbName = "Documents"

// BrowseSession is the explicit navigation state a client holds while
// walking the namespace: current location, listing, the 2-entry breadcrumb
// trail, and the per-listing size map.
//
// The trail is not an ancestor chain: entering a folder always yields
// [root, folder], whatever the folder's real depth.
//
// Every navigation bumps a monotonic epoch. Folder-size aggregation runs
// asynchronously after the listing is applied (it never blocks navigation)
// and its result is discarded when the epoch has been superseded, so a late
// aggregation cannot clobber the state of a newer location.
type BrowseSession struct {
	namespace *Namespace
	sizes     *SizeAggregator
	caller    models.Caller
	logger    *slog.Logger

	mu          sync.Mutex
	epoch       uint64
	location    models.Location
	trail       []models.Breadcrumb
	listing     *Listing
	folderSizes map[string]int64

	pending sync.WaitGroup
}

// NewBrowseSession creates a session rooted at the structure root.
func NewBrowseSession(namespace *Namespace, sizes *SizeAggregator, caller models.Caller, logger *slog.Logger) *BrowseSession {
	return &BrowseSession{
		namespace: namespace,
		sizes:     sizes,
		caller:    caller,
		logger:    logger,
		location:  models.Root(),
		trail:     []models.Breadcrumb{{ID: "", Name: RootCrumbName}},
	}
}

// Navigate resolves the listing for the location and makes it the current
// state. displayName labels the breadcrumb entry for non-root locations
// (the caller knows the name of the node it clicked). The listing is
// returned synchronously; folder sizes follow asynchronously.
func (s *BrowseSession) Navigate(ctx context.Context, loc models.Location, displayName string) (*Listing, error) {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	listing, err := s.namespace.ResolveChildren(ctx, loc, s.caller)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if epoch != s.epoch {
		// A newer navigation superseded this one; hand the listing back
		// without touching session state.
		s.mu.Unlock()
		s.logger.Debug("discarded superseded listing", "location", loc.String())
		return listing, nil
	}
	s.location = loc
	s.listing = listing
	s.folderSizes = nil
	s.trail = trailFor(loc, displayName)
	s.mu.Unlock()

	// Size aggregation is decoupled from the listing so it never delays
	// navigation.
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.aggregateSizes(ctx, epoch, listing)
	}()

	return listing, nil
}

func trailFor(loc models.Location, displayName string) []models.Breadcrumb {
	trail := []models.Breadcrumb{{ID: "", Name: RootCrumbName}}
	if loc.Kind == models.LocationRoot {
		return trail
	}
	id := loc.ID
	switch loc.Kind {
	case models.LocationMissionsRoot:
		id = models.MissionsRootID
	case models.LocationStudentDocs:
		id = models.StudentDocsRootID
	}
	return append(trail, models.Breadcrumb{ID: id, Name: displayName})
}

func (s *BrowseSession) aggregateSizes(ctx context.Context, epoch uint64, listing *Listing) {
	sizes, err := s.sizes.FolderSizes(ctx, listing.Folders, s.caller.StructureID)
	if err != nil {
		s.logger.Warn("size aggregation failed", "location", listing.Location.String(), "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		s.logger.Debug("discarded superseded size aggregation", "location", listing.Location.String())
		return
	}
	s.folderSizes = sizes
}

// Breadcrumbs returns a copy of the current trail.
func (s *BrowseSession) Breadcrumbs() []models.Breadcrumb {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Breadcrumb, len(s.trail))
	copy(out, s.trail)
	return out
}

// FolderSizes returns the size map of the current listing; nil while
// aggregation is still in flight.
func (s *BrowseSession) FolderSizes() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.folderSizes == nil {
		return nil
	}
	out := make(map[string]int64, len(s.folderSizes))
	for k, v := range s.folderSizes {
		out[k] = v
	}
	return out
}

// Listing returns the currently applied listing.
func (s *BrowseSession) Listing() *Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listing
}

// PatchName updates any trail entry and listed node referencing the ID
// after a rename. No re-fetch.
func (s *BrowseSession) PatchName(nodeID, newName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.trail {
		if s.trail[i].ID == nodeID {
			s.trail[i].Name = newName
		}
	}
	if s.listing == nil {
		return
	}
	for i := range s.listing.Folders {
		if s.listing.Folders[i].ID == nodeID {
			s.listing.Folders[i].Name = newName
		}
	}
	for i := range s.listing.Documents {
		if s.listing.Documents[i].ID == nodeID {
			s.listing.Documents[i].Name = newName
		}
	}
}

// Evict optimistically removes a node from the current listing after a
// successful move or delete, without forcing a re-fetch.
func (s *BrowseSession) Evict(nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listing == nil {
		return
	}

	folders := s.listing.Folders[:0]
	for _, f := range s.listing.Folders {
		if f.ID != nodeID {
			folders = append(folders, f)
		}
	}
	s.listing.Folders = folders

	docs := s.listing.Documents[:0]
	for _, d := range s.listing.Documents {
		if d.ID != nodeID {
			docs = append(docs, d)
		}
	}
	s.listing.Documents = docs

	delete(s.folderSizes, nodeID)
}

// Flush waits for in-flight asynchronous work. Used by tests and by
// graceful shutdown.
func (s *BrowseSession) Flush() {
	s.pending.Wait()
}
