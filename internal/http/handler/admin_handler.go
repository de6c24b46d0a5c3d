package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"lockdesk/internal/domain"
	"lockdesk/internal/http/response"
	"lockdesk/internal/identity"
	"lockdesk/internal/observability"
	"lockdesk/internal/service"
)

// AdminHandler serves the privileged unlock endpoint and its read-only
// companions. Every request walks the same gates in order: credential,
// identity, role, payload, mutation, audit. A failed gate answers
// immediately and skips everything after it.
type AdminHandler struct {
	verifier  identity.Verifier
	authz     service.RoleAuthorizer
	unlocker  service.AccountUnlocker
	lockouts  service.LockoutReader
	adminRole string
	now       func() time.Time
}

func NewAdminHandler(
	verifier identity.Verifier,
	authz service.RoleAuthorizer,
	unlocker service.AccountUnlocker,
	lockouts service.LockoutReader,
	adminRole string,
) *AdminHandler {
	return &AdminHandler{
		verifier:  verifier,
		authz:     authz,
		unlocker:  unlocker,
		lockouts:  lockouts,
		adminRole: adminRole,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type unlockRequest struct {
	UserID string `json:"user_id"`
}

type unlockResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const (
	msgMissingAuthHeader = "Missing authorization header"
	msgUnauthorized      = "Unauthorized"
	msgAdminRequired     = "Admin access required"
	msgUserIDRequired    = "user_id is required"
	msgInternal          = "Internal server error"
	msgUnlocked          = "Account unlocked successfully"
)

func (h *AdminHandler) UnlockAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	caller, ok := h.authenticate(w, r)
	if !ok {
		observability.RecordUnlockRequestDuration(ctx, "denied", time.Since(start))
		return
	}

	var req unlockRequest
	if r.Body != nil {
		// Malformed JSON reads the same as an absent target: the caller
		// did not name an account to unlock.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		observability.RecordUnlockGateDecision(ctx, "payload", "missing_user_id")
		response.Error(w, r, http.StatusBadRequest, msgUserIDRequired)
		observability.RecordUnlockRequestDuration(ctx, "bad_request", time.Since(start))
		return
	}

	rec, err := h.unlocker.Unlock(ctx, req.UserID, caller.ID, h.now())
	if err != nil {
		observability.RecordUnlockGateDecision(ctx, "mutation", "error")
		observability.Audit(r, "admin_unlock_failed",
			"actor_id", caller.ID,
			"target_id", req.UserID,
			"error", err.Error(),
		)
		response.Error(w, r, http.StatusInternalServerError, upstreamMessage(err))
		observability.RecordUnlockRequestDuration(ctx, "error", time.Since(start))
		return
	}

	observability.RecordUnlockGateDecision(ctx, "success", "unlocked")
	observability.RecordAuditWrite(ctx, domain.ActionAccountUnlocked, "success")
	observability.Audit(r, "admin_unlock_succeeded",
		"actor_id", caller.ID,
		"target_id", req.UserID,
		"audit_record_id", rec.ID,
	)
	response.JSON(w, r, http.StatusOK, unlockResponse{Success: true, Message: msgUnlocked})
	observability.RecordUnlockRequestDuration(ctx, "success", time.Since(start))
}

// GetLockout reports the current lock state for one account.
func (h *AdminHandler) GetLockout(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authenticate(w, r); !ok {
		return
	}
	userID := strings.TrimSpace(chi.URLParam(r, "user_id"))
	if userID == "" {
		response.Error(w, r, http.StatusBadRequest, msgUserIDRequired)
		return
	}

	lockout, err := h.lockouts.Get(r.Context(), userID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, upstreamMessage(err))
		return
	}
	now := h.now()
	body := map[string]any{
		"user_id": userID,
		"locked":  lockout.Locked(now),
	}
	if lockout != nil {
		body["failed_attempts"] = lockout.FailedAttempts
		body["locked_until"] = lockout.LockedUntil
		body["unlocked_at"] = lockout.UnlockedAt
		body["unlocked_by"] = lockout.UnlockedBy
	}
	response.JSON(w, r, http.StatusOK, body)
}

// ListLockouts returns every account currently locked.
func (h *AdminHandler) ListLockouts(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authenticate(w, r); !ok {
		return
	}
	locked, err := h.lockouts.ListLocked(r.Context(), h.now())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, upstreamMessage(err))
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"lockouts": locked, "count": len(locked)})
}

// authenticate runs the credential, identity and role gates shared by every
// admin endpoint. On failure it writes the response and returns ok=false.
func (h *AdminHandler) authenticate(w http.ResponseWriter, r *http.Request) (*identity.Principal, bool) {
	ctx := r.Context()

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		observability.RecordUnlockGateDecision(ctx, "credential", "missing_header")
		response.Error(w, r, http.StatusUnauthorized, msgMissingAuthHeader)
		return nil, false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	caller, err := h.verifier.Verify(ctx, token)
	if err != nil {
		outcome := "invalid_credential"
		if !errors.Is(err, identity.ErrInvalidCredential) {
			outcome = "lookup_error"
		}
		observability.RecordUnlockGateDecision(ctx, "identity", outcome)
		observability.Audit(r, "admin_auth_rejected", "reason", outcome)
		response.Error(w, r, http.StatusUnauthorized, msgUnauthorized)
		return nil, false
	}

	isAdmin, err := h.authz.HasRole(ctx, caller.ID, h.adminRole)
	if err != nil {
		// A failed lookup is not a denial. Answering 403 here would tell a
		// real admin they lost access every time the database blips.
		observability.RecordUnlockGateDecision(ctx, "role", "error")
		observability.Audit(r, "admin_role_check_failed", "actor_id", caller.ID, "error", err.Error())
		response.Error(w, r, http.StatusInternalServerError, msgInternal)
		return nil, false
	}
	if !isAdmin {
		observability.RecordUnlockGateDecision(ctx, "role", "denied")
		observability.Audit(r, "admin_access_denied", "actor_id", caller.ID)
		response.Error(w, r, http.StatusForbidden, msgAdminRequired)
		return nil, false
	}
	return caller, true
}

func upstreamMessage(err error) string {
	if msg := service.MessageOf(err); msg != "" {
		return msg
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return msgInternal
}
