package common

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// SessionName is the cookie holding the browser session.
const SessionName = "nlnotebook_session"

const (
	keyWorkspace = "workspace"
	keyUserID    = "user_id"
	keyUserEmail = "user_email"
	keyUserName  = "user_name"
)

// session returns the browser session. A cookie that fails to decode, for
// example after a secret rotation, yields a fresh session.
func session(store sessions.Store, r *http.Request) *sessions.Session {
	s, err := store.Get(r, SessionName)
	if err != nil || s == nil {
		s = sessions.NewSession(store, SessionName)
		s.IsNew = true
	}
	return s
}

// WorkspaceID returns the session's workspace ID, assigning and saving a new
// one on first visit. It must be called before the response body is written.
func WorkspaceID(store sessions.Store, w http.ResponseWriter, r *http.Request) (string, error) {
	s := session(store, r)
	if id, ok := s.Values[keyWorkspace].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	s.Values[keyWorkspace] = id
	if err := s.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}

// CurrentUser returns the signed-in user, or nil.
func CurrentUser(store sessions.Store, r *http.Request) *SessionUser {
	s := session(store, r)
	id, _ := s.Values[keyUserID].(string)
	if id == "" {
		return nil
	}
	email, _ := s.Values[keyUserEmail].(string)
	name, _ := s.Values[keyUserName].(string)
	return &SessionUser{ID: id, Email: email, Name: name}
}

// SetUser stores the signed-in user in the session.
func SetUser(store sessions.Store, w http.ResponseWriter, r *http.Request, u SessionUser) error {
	s := session(store, r)
	s.Values[keyUserID] = u.ID
	s.Values[keyUserEmail] = u.Email
	s.Values[keyUserName] = u.Name
	return s.Save(r, w)
}

// ClearUser signs the user out. The workspace is kept.
func ClearUser(store sessions.Store, w http.ResponseWriter, r *http.Request) error {
	s := session(store, r)
	delete(s.Values, keyUserID)
	delete(s.Values, keyUserEmail)
	delete(s.Values, keyUserName)
	return s.Save(r, w)
}
