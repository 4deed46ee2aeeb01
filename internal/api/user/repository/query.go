package userRepository

const (
	queryGetUserByID = `
		SELECT
			id,
			name,
			email,
			image_url,
			created_at,
			updated_at
		FROM users
		WHERE id = :id
	`

	queryGetUserByEmail = `
		SELECT
			id,
			name,
			email,
			image_url,
			created_at,
			updated_at
		FROM users
		WHERE email = :email
	`

	queryUpdateUser = `
		UPDATE users
		SET
			name = :name,
			email = :email,
			image_url = :image_url,
			updated_at = :updated_at
		WHERE id = :id
	`
)
