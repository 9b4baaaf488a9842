package handlers

import (
	"net/http"

	"github.com/flowvera/flowvera/internal/api/dto"
	"github.com/flowvera/flowvera/internal/domain/crm"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/flowvera/flowvera/internal/pkg/utils"
	"github.com/flowvera/flowvera/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// CRMHandler serves contacts and companies
type CRMHandler struct {
	service   crm.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewCRMHandler creates a new CRM handler
func NewCRMHandler(service crm.Service, log *logger.Logger, val *validator.Validator) *CRMHandler {
	return &CRMHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// ListContacts returns the caller's contacts
// @Summary List contacts
// @Tags CRM
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]crm.Contact} "Contacts"
// @Security BearerAuth
// @Router /crm/contacts [get]
func (h *CRMHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	contacts, err := h.service.ListContacts(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, contacts)
}

// CreateContact creates a contact
// @Summary Create contact
// @Tags CRM
// @Accept json
// @Produce json
// @Param request body dto.CreateContactRequest true "Contact"
// @Success 201 {object} utils.SuccessResponse{data=crm.Contact} "Created contact"
// @Security BearerAuth
// @Router /crm/contacts [post]
func (h *CRMHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.CreateContactRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	c, err := h.service.CreateContact(r.Context(), userID, req.ToInput())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, c)
}

// GetContact returns one contact
// @Summary Get contact
// @Tags CRM
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} utils.SuccessResponse{data=crm.Contact} "Contact"
// @Failure 403 {object} utils.ErrorResponse "Not the owner"
// @Security BearerAuth
// @Router /crm/contacts/{id} [get]
func (h *CRMHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	c, err := h.service.GetContact(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, c)
}

// UpdateContact merges fields into a contact
// @Summary Update contact
// @Tags CRM
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param request body dto.UpdateContactRequest true "Fields to change"
// @Success 200 {object} utils.SuccessResponse{data=crm.Contact} "Updated contact"
// @Security BearerAuth
// @Router /crm/contacts/{id} [patch]
func (h *CRMHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateContactRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	c, err := h.service.UpdateContact(r.Context(), chi.URLParam(r, "id"), userID, req.ToInput())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, c)
}

// DeleteContact removes a contact
// @Summary Delete contact
// @Tags CRM
// @Param id path string true "Contact ID"
// @Success 204 "Deleted"
// @Security BearerAuth
// @Router /crm/contacts/{id} [delete]
func (h *CRMHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteContact(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.NoContent(w)
}

// ListCompanies returns the caller's companies
// @Summary List companies
// @Tags CRM
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]crm.Company} "Companies"
// @Security BearerAuth
// @Router /crm/companies [get]
func (h *CRMHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	companies, err := h.service.ListCompanies(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, companies)
}

// CreateCompany creates a company
// @Summary Create company
// @Tags CRM
// @Accept json
// @Produce json
// @Param request body dto.CreateCompanyRequest true "Company"
// @Success 201 {object} utils.SuccessResponse{data=crm.Company} "Created company"
// @Security BearerAuth
// @Router /crm/companies [post]
func (h *CRMHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.CreateCompanyRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	c, err := h.service.CreateCompany(r.Context(), userID, req.ToInput())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, c)
}

// GetCompany returns one company
// @Summary Get company
// @Tags CRM
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} utils.SuccessResponse{data=crm.Company} "Company"
// @Security BearerAuth
// @Router /crm/companies/{id} [get]
func (h *CRMHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	c, err := h.service.GetCompany(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, c)
}

// UpdateCompany merges fields into a company
// @Summary Update company
// @Tags CRM
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Param request body dto.UpdateCompanyRequest true "Fields to change"
// @Success 200 {object} utils.SuccessResponse{data=crm.Company} "Updated company"
// @Security BearerAuth
// @Router /crm/companies/{id} [patch]
func (h *CRMHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateCompanyRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	c, err := h.service.UpdateCompany(r.Context(), chi.URLParam(r, "id"), userID, req.ToInput())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, c)
}

// DeleteCompany removes a company and detaches its contacts
// @Summary Delete company
// @Tags CRM
// @Param id path string true "Company ID"
// @Success 204 "Deleted"
// @Security BearerAuth
// @Router /crm/companies/{id} [delete]
func (h *CRMHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteCompany(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.NoContent(w)
}

// ListCompanyContacts returns the contacts linked to a company
// @Summary List company contacts
// @Tags CRM
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} utils.SuccessResponse{data=[]crm.Contact} "Contacts"
// @Security BearerAuth
// @Router /crm/companies/{id}/contacts [get]
func (h *CRMHandler) ListCompanyContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	contacts, err := h.service.ListContactsByCompany(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, contacts)
}
