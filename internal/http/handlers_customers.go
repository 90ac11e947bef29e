package http

import (
	"net/http"

	"fatoora/internal/core"
	"fatoora/internal/storage"
)

const timestampLayout = "2006-01-02 15:04:05"

type customerJSON struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toCustomerJSON(c core.Customer) customerJSON {
	return customerJSON{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt.Format(timestampLayout),
	}
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	search, page, pageSize := listParams(r)

	customers, err := s.store.ListCustomers(r.Context(), search, page, pageSize)
	if err != nil {
		s.storeError(w, r, "list customers", err)
		return
	}

	out := make([]customerJSON, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerJSON(c))
	}
	respondJSON(w, http.StatusOK, out)
}

type customerCreateRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes,omitempty"`
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := core.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}
	if err := c.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateCustomer(r.Context(), c)
	if err != nil {
		s.storeError(w, r, "create customer", err)
		return
	}
	respondJSON(w, http.StatusCreated, toCustomerJSON(created))
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	c, err := s.store.GetCustomer(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "get customer", err)
		return
	}
	if c == nil {
		respondError(w, http.StatusNotFound, "customer not found")
		return
	}
	respondJSON(w, http.StatusOK, toCustomerJSON(*c))
}

type customerUpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req customerUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name != nil && *req.Name == "" {
		respondError(w, http.StatusUnprocessableEntity, core.ErrEmptyName.Error())
		return
	}

	patch := storage.CustomerPatch{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}
	if err := s.store.UpdateCustomer(r.Context(), id, patch); err != nil {
		s.storeError(w, r, "update customer", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteCustomer(r.Context(), id); err != nil {
		s.storeError(w, r, "delete customer", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
