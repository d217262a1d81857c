package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/bookshelf/data/dto"
	"github.com/emzola/bookshelf/internal/validator"
	"github.com/emzola/bookshelf/service"
)

func (h *Handler) createBookClubHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateBookClubRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	club, err := h.service.CreateBookClub(user.ID, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"club": club}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) showBookClubHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := h.readIDParam(r, "clubId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	club, err := h.service.GetBookClub(clubID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"club": club}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) updateBookClubHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := h.readIDParam(r, "clubId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.UpdateBookClubRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	club, err := h.service.UpdateBookClub(clubID, user.ID, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"club": club}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) uploadBookClubImageHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := h.readIDParam(r, "clubId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	// Set 2MB limit for request body size
	maxBytes := int64(2_097_152)
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	err = r.ParseMultipartForm(5000)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	defer file.Close()
	user := h.contextGetUser(r)
	club, err := h.service.UploadBookClubImage(clubID, user.ID, file, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		case errors.Is(err, service.ErrUnsupportedMediaType):
			h.unsupportedMediaTypeResponse(w, r)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"club": club}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) deleteBookClubHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := h.readIDParam(r, "clubId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	user := h.contextGetUser(r)
	err = h.service.DeleteBookClub(clubID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "book club successfully deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listPublicBookClubsHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListBookClubs
	v := validator.New()
	qs := r.URL.Query()
	search := h.readString(qs, "search", "")
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.PageSize = h.readInt(qs, "page_size", 10, v)
	qsInput.Filters.Sort = h.readString(qs, "sort", "-created_at")
	qsInput.Filters.SortSafeList = []string{"name", "created_at", "-name", "-created_at"}
	clubs, metadata, err := h.service.ListPublicBookClubs(search, qsInput.Filters)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"clubs": clubs, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listUserBookClubsHandler(w http.ResponseWriter, r *http.Request) {
	user := h.contextGetUser(r)
	clubs, err := h.service.ListUserBookClubs(user.ID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"clubs": clubs}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) joinBookClubHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := h.readIDParam(r, "clubId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	user := h.contextGetUser(r)
	membership, err := h.service.JoinBookClub(clubID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		case errors.Is(err, service.ErrDuplicateRecord):
			h.recordAlreadyExistsResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"membership": membership}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) leaveBookClubHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := h.readIDParam(r, "clubId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	user := h.contextGetUser(r)
	err = h.service.LeaveBookClub(clubID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "you have left the book club"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) updateBookClubMemberRoleHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := h.readIDParam(r, "clubId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	memberUserID, err := h.readIDParam(r, "userId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.UpdateMemberRoleRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	membership, err := h.service.UpdateMemberRole(clubID, user.ID, memberUserID, requestBody.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"membership": membership}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) removeBookClubMemberHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := h.readIDParam(r, "clubId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	memberUserID, err := h.readIDParam(r, "userId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	user := h.contextGetUser(r)
	err = h.service.RemoveBookClubMember(clubID, user.ID, memberUserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "member successfully removed from the book club"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listBookClubMembersHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := h.readIDParam(r, "clubId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	members, err := h.service.ListBookClubMembers(clubID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"members": members}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
