package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"duskSkyWeb/internal/types/friendship"
	"duskSkyWeb/middleware"
	"duskSkyWeb/services"
)

const (
	requestTimeout  = 5 * time.Second
	maxSearchIDs    = 50
	maxRequestBytes = 1 << 10
)

type FriendshipHandler struct {
	friendshipService *services.FriendshipService
}

func NewFriendshipHandler(friendshipService *services.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipService: friendshipService,
	}
}

// GetProfileRelationship serves the profile page header. Anonymous viewers
// always see not_friends.
func (h *FriendshipHandler) GetProfileRelationship(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	viewerID, _ := middleware.GetUserID(ctx)
	profileID := mux.Vars(r)["id"]

	resp, err := h.friendshipService.ProfileRelationship(ctx, viewerID, profileID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *FriendshipHandler) SearchRelationships(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	raw := r.URL.Query().Get("ids")
	if raw == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'ids' is required")
		return
	}
	ids := strings.Split(raw, ",")
	if len(ids) > maxSearchIDs {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("At most %d ids may be annotated at once", maxSearchIDs))
		return
	}
	for i := range ids {
		ids[i] = strings.TrimSpace(ids[i])
	}

	viewerID, _ := middleware.GetUserID(ctx)
	results, err := h.friendshipService.AnnotateSearch(ctx, viewerID, ids)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, results)
}

func (h *FriendshipHandler) GetMyFriends(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	h.writeFriends(ctx, w, r, userID)
}

func (h *FriendshipHandler) GetUserFriends(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	h.writeFriends(ctx, w, r, mux.Vars(r)["id"])
}

func (h *FriendshipHandler) writeFriends(ctx context.Context, w http.ResponseWriter, r *http.Request, userID string) {
	friends, err := h.friendshipService.Friends(ctx, userID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, friends)
}

func (h *FriendshipHandler) GetIncomingRequests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	requests, err := h.friendshipService.IncomingRequests(ctx, userID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, requests)
}

func (h *FriendshipHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var body friendship.SendRequestBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	body.ProfileID = strings.TrimSpace(body.ProfileID)
	if body.ProfileID == "" {
		respondWithError(w, http.StatusBadRequest, "profileId is required")
		return
	}

	req, err := h.friendshipService.SendRequest(ctx, userID, body.ProfileID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"requestId":    req.ID,
		"relationship": string(friendship.RelationshipPendingOutgoing),
	})
}

func (h *FriendshipHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	h.respondToRequest(w, r, h.friendshipService.AcceptRequest, friendship.RelationshipFriends)
}

func (h *FriendshipHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.respondToRequest(w, r, h.friendshipService.RejectRequest, friendship.RelationshipNotFriends)
}

func (h *FriendshipHandler) respondToRequest(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, viewerID, requestID string) error,
	result friendship.RelationshipKind,
) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	requestID := mux.Vars(r)["id"]
	if err := apply(ctx, userID, requestID); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"requestId":    requestID,
		"relationship": string(result),
	})
}
