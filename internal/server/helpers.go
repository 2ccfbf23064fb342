package server

import "moodmate/internal/models"

// userView is the public projection of a user record returned by the API.
type userView struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

func newUserView(user *models.User) userView {
	return userView{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		ProfileImage: user.ProfileImage,
	}
}
