package transport

import (
	"net/http"

	"github.com/google/uuid"

	appservice "orderservice/pkg/order/application/service"
	"orderservice/pkg/order/domain/model"
)

type userInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userOutput struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type userMessageOutput struct {
	User    userOutput `json:"user"`
	Message string     `json:"message"`
}

func toUserOutput(user *model.User) userOutput {
	return userOutput{ID: user.ID, Name: user.Name}
}

func (in userInput) toServiceInput() appservice.UserInput {
	return appservice.UserInput{Name: in.Name, Email: in.Email, Password: in.Password}
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var input userInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.RegisterUser(r.Context(), input.toServiceInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, userMessageOutput{User: toUserOutput(user), Message: "User created successfully."})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]userOutput, 0, len(users))
	for i := range users {
		out = append(out, toUserOutput(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input userInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.UpdateUser(r.Context(), userID, input.toServiceInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userMessageOutput{User: toUserOutput(user), Message: "User updated successfully."})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.users.DeleteUser(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User removed successfully."})
}
