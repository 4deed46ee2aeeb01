package ledgerRepository

const (
	queryCreateWallet = `
		INSERT INTO wallets (
			id,
			user_id,
			name,
			image_url,
			amount,
			total_income,
			total_expenses,
			created_at,
			updated_at
		) VALUES (
			:id,
			:user_id,
			:name,
			:image_url,
			:amount,
			:total_income,
			:total_expenses,
			:created_at,
			:updated_at
		)
	`

	queryGetWalletByID = `
		SELECT
			id,
			user_id,
			name,
			image_url,
			amount,
			total_income,
			total_expenses,
			created_at,
			updated_at
		FROM wallets
		WHERE id = :id
		  AND user_id = :user_id
	`

	queryGetWalletByIDForUpdate = queryGetWalletByID + `
		FOR UPDATE
	`

	queryGetWalletsByUserID = `
		SELECT
			id,
			user_id,
			name,
			image_url,
			amount,
			total_income,
			total_expenses,
			created_at,
			updated_at
		FROM wallets
		WHERE user_id = :user_id
		ORDER BY created_at DESC
	`

	queryUpdateWallet = `
		UPDATE wallets
		SET
			name = :name,
			image_url = :image_url,
			updated_at = :updated_at
		WHERE id = :id
		  AND user_id = :user_id
	`

	queryUpdateWalletBalances = `
		UPDATE wallets
		SET
			amount = :amount,
			total_income = :total_income,
			total_expenses = :total_expenses,
			updated_at = :updated_at
		WHERE id = :id
		  AND user_id = :user_id
	`

	queryDeleteWallet = `
		DELETE FROM wallets
		WHERE id = :id
		  AND user_id = :user_id
	`

	queryCreateTransaction = `
		INSERT INTO transactions (
			id,
			user_id,
			wallet_id,
			type,
			amount,
			category,
			description,
			image_url,
			date,
			created_at,
			updated_at
		) VALUES (
			:id,
			:user_id,
			:wallet_id,
			:type,
			:amount,
			:category,
			:description,
			:image_url,
			:date,
			:created_at,
			:updated_at
		)
	`

	queryGetTransactionByID = `
		SELECT
			id,
			user_id,
			wallet_id,
			type,
			amount,
			category,
			description,
			image_url,
			date,
			created_at,
			updated_at
		FROM transactions
		WHERE id = :id
		  AND user_id = :user_id
	`

	queryGetTransactionsByUserID = `
		SELECT
			id,
			user_id,
			wallet_id,
			type,
			amount,
			category,
			description,
			image_url,
			date,
			created_at,
			updated_at
		FROM transactions
		WHERE user_id = :user_id
		  AND (:search = ''
		       OR description ILIKE '%' || :search || '%'
		       OR category ILIKE '%' || :search || '%'
		       OR type = :search)
		ORDER BY date DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountTransactionsByUserID = `
		SELECT COUNT(*)
		FROM transactions
		WHERE user_id = :user_id
		  AND (:search = ''
		       OR description ILIKE '%' || :search || '%'
		       OR category ILIKE '%' || :search || '%'
		       OR type = :search)
	`

	queryGetTransactionsByDateRange = `
		SELECT
			id,
			user_id,
			wallet_id,
			type,
			amount,
			category,
			description,
			image_url,
			date,
			created_at,
			updated_at
		FROM transactions
		WHERE user_id = :user_id
		  AND date >= :from
		  AND date <= :to
		ORDER BY date DESC
	`

	queryUpdateTransaction = `
		UPDATE transactions
		SET
			wallet_id = :wallet_id,
			type = :type,
			amount = :amount,
			category = :category,
			description = :description,
			image_url = :image_url,
			date = :date,
			updated_at = :updated_at
		WHERE id = :id
		  AND user_id = :user_id
	`

	queryDeleteTransaction = `
		DELETE FROM transactions
		WHERE id = :id
		  AND user_id = :user_id
	`

	queryDeleteTransactionsByWalletID = `
		DELETE FROM transactions
		WHERE wallet_id = :wallet_id
		  AND user_id = :user_id
	`
)
