package repository_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"page-assistant/backend/internal/model"
	"page-assistant/backend/internal/repository"
)

func setupRepository(t *testing.T) (repository.Repository, sqlmock.Sqlmock) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return repository.NewSQLiteRepository(db), mockDB
}

func TestSQLiteRepository_SaveConversation(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Whole record upsert", func(t *testing.T) {
		repo, mockDB := setupRepository(t)

		conversation := &model.Conversation{
			Source: model.SourceSelection,
			Model:  "gpt-4o-mini",
			Messages: []model.Message{
				{Role: model.RoleUser, Content: "question"},
			},
		}
		data, err := json.Marshal(conversation)
		require.NoError(t, err)

		mockDB.ExpectExec("INSERT INTO conversation").
			WithArgs("conversation", string(data), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err = repo.SaveConversation(ctx, conversation)
		require.NoError(t, err)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Failure - Exec error", func(t *testing.T) {
		repo, mockDB := setupRepository(t)

		mockDB.ExpectExec("INSERT INTO conversation").
			WillReturnError(errors.New("disk I/O error"))

		err := repo.SaveConversation(ctx, &model.Conversation{})
		assert.Error(t, err)
	})
}

func TestSQLiteRepository_GetConversation(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Round trip", func(t *testing.T) {
		repo, mockDB := setupRepository(t)

		stored := &model.Conversation{
			Source:      model.SourcePage,
			URL:         "https://example.com",
			Provider:    "anthropic",
			Model:       "claude-3-5-haiku-latest",
			Temperature: 0.5,
			MaxTokens:   1024,
			Messages: []model.Message{
				{Role: model.RoleSystem, Content: "system"},
				{Role: model.RoleAssistant, Content: "answer"},
			},
		}
		data, err := json.Marshal(stored)
		require.NoError(t, err)

		rows := sqlmock.NewRows([]string{"data"}).AddRow(string(data))
		mockDB.ExpectQuery("SELECT data FROM conversation").
			WithArgs("conversation").
			WillReturnRows(rows)

		conversation, err := repo.GetConversation(ctx)
		require.NoError(t, err)
		assert.Equal(t, stored, conversation)
	})

	t.Run("Success - Empty slot yields nil, nil", func(t *testing.T) {
		repo, mockDB := setupRepository(t)

		mockDB.ExpectQuery("SELECT data FROM conversation").
			WillReturnError(sql.ErrNoRows)

		conversation, err := repo.GetConversation(ctx)
		require.NoError(t, err)
		assert.Nil(t, conversation)
	})

	t.Run("Failure - Corrupt blob", func(t *testing.T) {
		repo, mockDB := setupRepository(t)

		rows := sqlmock.NewRows([]string{"data"}).AddRow("{corrupt")
		mockDB.ExpectQuery("SELECT data FROM conversation").
			WillReturnRows(rows)

		_, err := repo.GetConversation(ctx)
		assert.Error(t, err)
	})
}
