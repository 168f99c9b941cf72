package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/go-chi/chi/v5"
)

// editFunc performs one edit and returns the storage id of the node it
// created, if any.
type editFunc func(r *http.Request, layoutID int64) (string, error)

// editHandler parses the common parameters, checks that tokenString covers
// layoutId and runs fn.
func (s *Server) editHandler(fn editFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.writeError(w, r, fmt.Errorf("%w: %v", domain.ErrValidation, err))
			return
		}
		layoutID, err := requiredInt64(r, "layoutId")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.Tokens.Authorize(r.Context(), r.Form.Get("tokenString"), layoutID); err != nil {
			s.writeError(w, r, err)
			return
		}
		id, err := fn(r, layoutID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ack{Success: true, ID: id})
	}
}

func (s *Server) move(r *http.Request, layoutID int64) (string, error) {
	itemID, err := requiredString(r, "itemId")
	if err != nil {
		return "", err
	}
	containerID, err := requiredString(r, "containerId")
	if err != nil {
		return "", err
	}
	position, err := requiredInt(r, "newPosition")
	if err != nil {
		return "", err
	}
	req := domain.MoveRequest{NodeID: itemID, ContainerID: containerID, Position: position}
	return "", s.Edits.Move(r.Context(), layoutID, req)
}

func (s *Server) addColumnContainer(r *http.Request, layoutID int64) (string, error) {
	containerID, err := requiredString(r, "containerId")
	if err != nil {
		return "", err
	}
	position, err := optionalInt(r, "position", 0)
	if err != nil {
		return "", err
	}
	count, err := optionalInt(r, "columnCount", 2)
	if err != nil {
		return "", err
	}
	h, err := s.Edits.AddColumnContainer(r.Context(), layoutID, containerID, position, count)
	if err != nil {
		return "", err
	}
	return h.ID, nil
}

func (s *Server) addColumn(r *http.Request, layoutID int64) (string, error) {
	containerID, err := requiredString(r, "containerId")
	if err != nil {
		return "", err
	}
	position, err := optionalInt(r, "position", 0)
	if err != nil {
		return "", err
	}
	col, err := s.Edits.AddColumn(r.Context(), layoutID, containerID, position)
	if err != nil {
		return "", err
	}
	return col.ID, nil
}

func (s *Server) removeColumn(r *http.Request, layoutID int64) (string, error) {
	containerID, err := requiredString(r, "containerId")
	if err != nil {
		return "", err
	}
	position, err := requiredInt(r, "position")
	if err != nil {
		return "", err
	}
	return "", s.Edits.RemoveColumn(r.Context(), layoutID, containerID, position)
}

func (s *Server) remove(r *http.Request, layoutID int64) (string, error) {
	itemID, err := requiredString(r, "itemId")
	if err != nil {
		return "", err
	}
	return "", s.Edits.Remove(r.Context(), layoutID, itemID)
}

func (s *Server) addItem(r *http.Request, layoutID int64) (string, error) {
	containerID, err := requiredString(r, "containerId")
	if err != nil {
		return "", err
	}
	position, err := optionalInt(r, "position", 0)
	if err != nil {
		return "", err
	}
	typeID, err := requiredString(r, "type")
	if err != nil {
		return "", err
	}
	payloadID, err := requiredInt64(r, "payloadId")
	if err != nil {
		return "", err
	}
	item, err := s.Edits.AddItem(r.Context(), layoutID, containerID, position, typeID, payloadID, formOptions(r))
	if err != nil {
		return "", err
	}
	return item.ID, nil
}

func (s *Server) editItem(r *http.Request, layoutID int64) (string, error) {
	itemID, err := requiredString(r, "itemId")
	if err != nil {
		return "", err
	}
	return "", s.Edits.SetOptions(r.Context(), layoutID, itemID, formOptions(r))
}

// handleLayout renders one layout. format=outline returns the XML outline
// instead of page markup.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "layoutID"), 10, 64)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: layout id must be an integer", domain.ErrValidation))
		return
	}
	var out string
	contentType := "text/html; charset=utf-8"
	if r.URL.Query().Get("format") == "outline" {
		out, err = s.Layouts.Outline(r.Context(), id)
		contentType = "application/xml"
	} else {
		out, err = s.Layouts.Render(r.Context(), id, r.URL.Query().Get("tokenString"))
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write([]byte(out))
}

// handlePage assembles every layout matching the node_id, site_id and
// region query parameters.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	conditions := map[string]any{}
	for _, column := range []string{"node_id", "site_id", "region"} {
		if !q.Has(column) {
			continue
		}
		v, err := nullableCondition(column, q.Get(column))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		conditions[column] = v
	}
	regions, err := s.Pages.Assemble(r.Context(), conditions, q.Get("tokenString"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, regions)
}
