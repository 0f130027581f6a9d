package service

import (
	"fmt"
	"slices"

	"dossier/internal/domain"
	"dossier/internal/domain/models"
)

// AccessGuard evaluates the per-node restriction predicate. Restriction is
// per-node only; it is not inherited down a folder tree.
//
// Listings use the boolean form and silently drop rejected nodes; open,
// download and delete use the Require form, which returns ErrForbidden.
type AccessGuard struct{}

// NewAccessGuard creates a new access guard
func NewAccessGuard() *AccessGuard {
	return &AccessGuard{}
}

// CanAccessFolder reports whether the caller may see the folder.
func (g *AccessGuard) CanAccessFolder(f *models.Folder, caller models.Caller) bool {
	if !f.Restricted {
		return true
	}
	if caller.IsAdmin() {
		return true
	}
	return slices.Contains(f.AllowedRoles, caller.Role)
}

// CanAccessDocument reports whether the caller may see the document.
// Owners always see their own documents.
func (g *AccessGuard) CanAccessDocument(d *models.Document, caller models.Caller) bool {
	if !d.Restricted {
		return true
	}
	if caller.IsAdmin() {
		return true
	}
	if slices.Contains(d.AllowedRoles, caller.Role) {
		return true
	}
	return caller.UserID != "" && caller.UserID == d.OwnerID
}

// RequireFolder is the hard gate for folder actions.
func (g *AccessGuard) RequireFolder(f *models.Folder, caller models.Caller) error {
	if g.CanAccessFolder(f, caller) {
		return nil
	}
	return fmt.Errorf("folder %s: %w", f.ID, domain.ErrForbidden)
}

// RequireDocument is the hard gate for open/download/delete actions.
func (g *AccessGuard) RequireDocument(d *models.Document, caller models.Caller) error {
	if g.CanAccessDocument(d, caller) {
		return nil
	}
	return fmt.Errorf("document %s: %w", d.ID, domain.ErrForbidden)
}
