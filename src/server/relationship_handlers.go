package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain"
	"github.com/Jalez/resident-committee-portal-sub005/src/services/relationships"
)

func (s *Server) GetEntityRelationships(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := s.parseEntityPath(w, r)
	if !ok {
		return
	}

	var targets []string
	if raw := r.URL.Query().Get("targets"); raw != "" {
		targets = strings.Split(raw, ",")
	}

	groups, err := s.relationshipService.LoadForEntity(r.Context(), kind, id, relationships.LoadOptions{
		Targets:     targets,
		Permissions: callerPermissions(r),
	})
	if err != nil {
		log.Printf("ERROR: Failed to load relationships for %s %d: %v", kind, id, err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, MapRelationsToResponse(groups))
}

func (s *Server) GetRelationshipContext(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := s.parseEntityPath(w, r)
	if !ok {
		return
	}

	overrides, err := overridesFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	values, err := s.relationshipService.GetRelationshipContext(r.Context(), kind, &id, overrides)
	if err != nil {
		log.Printf("ERROR: Failed to resolve context for %s %d: %v", kind, id, err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, MapContextToResponse(values))
}

// GetRelationshipContextForNew serves the create form: the record has no
// id yet, so the context is just the manual overrides.
func (s *Server) GetRelationshipContextForNew(w http.ResponseWriter, r *http.Request) {
	kind, ok := domain.NormalizeEntityKind(r.PathValue("kind"))
	if !ok {
		http.Error(w, domain.ErrUnknownEntityKind.Error(), http.StatusBadRequest)
		return
	}

	overrides, err := overridesFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	values, err := s.relationshipService.GetRelationshipContext(r.Context(), kind, nil, overrides)
	if err != nil {
		log.Printf("ERROR: Failed to resolve context for new %s: %v", kind, err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, MapContextToResponse(values))
}

func (s *Server) GetControlledTransactionFields(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid transaction ID format", http.StatusBadRequest)
		return
	}

	fields, err := s.relationshipService.GetControlledTransactionFields(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: Failed to derive controlled fields for transaction %d: %v", id, err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, fields)
}

func (s *Server) GetReceiptsByYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		http.Error(w, "Invalid year format", http.StatusBadRequest)
		return
	}

	records, err := s.receipts.ListReceiptsByYear(r.Context(), year)
	if err != nil {
		log.Printf("ERROR: Failed to list receipts for %d: %v", year, err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	response := make([]RecordDTO, 0, len(records))
	for _, record := range records {
		response = append(response, MapRecordToResponse(record))
	}
	writeJSON(w, response)
}

func (s *Server) LinkEntities(w http.ResponseWriter, r *http.Request) {
	var dto LinkRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := s.relationshipService.LinkEntities(r.Context(), relationships.LinkRequest{
		AType:     dto.AType,
		AID:       dto.AID,
		BType:     dto.BType,
		BID:       dto.BID,
		CreatedBy: dto.CreatedBy,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnknownEntityKind) || errors.Is(err, domain.ErrInvalidRelationship) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR: Failed to link entities: %v", err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(LinkResponseDTO{Created: created}); err != nil {
		log.Printf("ERROR: Failed to write JSON response: %v", err)
	}
}

func (s *Server) UnlinkEntities(w http.ResponseWriter, r *http.Request) {
	var dto LinkRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	removed, err := s.relationshipService.UnlinkEntities(r.Context(), relationships.LinkRequest{
		AType: dto.AType,
		AID:   dto.AID,
		BType: dto.BType,
		BID:   dto.BID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnknownEntityKind) || errors.Is(err, domain.ErrInvalidRelationship) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR: Failed to unlink entities: %v", err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, UnlinkResponseDTO{Removed: removed})
}

func (s *Server) parseEntityPath(w http.ResponseWriter, r *http.Request) (domain.EntityKind, int64, bool) {
	kind, ok := domain.NormalizeEntityKind(r.PathValue("kind"))
	if !ok {
		http.Error(w, domain.ErrUnknownEntityKind.Error(), http.StatusBadRequest)
		return "", 0, false
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid entity ID format", http.StatusBadRequest)
		return "", 0, false
	}

	return kind, id, true
}

// callerPermissions builds the permission set from the X-Portal-Roles
// header. The portal's session layer fills it in; an absent header means a
// trusted internal caller with full access.
func callerPermissions(r *http.Request) *domain.PermissionSet {
	raw := r.Header.Get("X-Portal-Roles")
	if raw == "" {
		return nil
	}

	roles := strings.Split(raw, ",")
	for i := range roles {
		roles[i] = strings.TrimSpace(roles[i])
	}
	return domain.PermissionsForRoles(roles)
}

func overridesFromQuery(r *http.Request) (*domain.ManualOverrides, error) {
	query := r.URL.Query()
	overrides := &domain.ManualOverrides{}
	present := false

	if raw := query.Get("date"); raw != "" {
		date, err := parseDateParam(raw)
		if err != nil {
			return nil, err
		}
		overrides.Date = date
		present = true
	}
	if raw := query.Get("total_amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, errors.New("Invalid total_amount format")
		}
		overrides.TotalAmount = &amount
		present = true
	}
	if raw := query.Get("description"); raw != "" {
		overrides.Description = &raw
		present = true
	}
	if raw := query.Get("currency"); raw != "" {
		overrides.Currency = &raw
		present = true
	}
	if raw := query.Get("category"); raw != "" {
		overrides.Category = &raw
		present = true
	}
	if raw := query.Get("purchaser_id"); raw != "" {
		purchaser, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("Invalid purchaser_id format")
		}
		overrides.PurchaserID = &purchaser
		present = true
	}

	if !present {
		return nil, nil
	}
	return overrides, nil
}

func parseDateParam(raw string) (*time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}
	return nil, errors.New("Invalid date format")
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("ERROR: Failed to write JSON response: %v", err)
	}
}
