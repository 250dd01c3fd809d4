package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/entities"
	apperrors "sistema-pericial/pkg/errors"
	"sistema-pericial/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type dbUsuario struct {
	ID                 uint64
	NomeCompleto       string
	Email              string
	CPF                string
	Telefone           sql.NullString
	Senha              string
	Perfil             string
	SuperAdmin         bool
	Status             string
	MustChangePassword bool
	CreatedAt          time.Time
	UpdatedAt          sql.NullTime
	DeletedAt          sql.NullTime
}

func (db *dbUsuario) ToEntity(servicos []uint64) entities.Usuario {
	u := entities.Usuario{
		ID:                 db.ID,
		NomeCompleto:       db.NomeCompleto,
		Email:              db.Email,
		CPF:                db.CPF,
		Telefone:           utils.NullStringToString(db.Telefone),
		Senha:              db.Senha,
		Perfil:             db.Perfil,
		SuperAdmin:         db.SuperAdmin,
		Status:             db.Status,
		MustChangePassword: db.MustChangePassword,
		ServicosPericiais:  servicos,
		CreatedAt:          db.CreatedAt,
	}
	if db.UpdatedAt.Valid {
		t := db.UpdatedAt.Time
		u.UpdatedAt = &t
	}
	if db.DeletedAt.Valid {
		t := db.DeletedAt.Time
		u.DeletedAt = &t
	}
	return u
}

func (db *dbUsuario) ToDTO(servicos []uint64) dto.UsuarioDTO {
	if servicos == nil {
		servicos = []uint64{}
	}
	return dto.UsuarioDTO{
		ID:                 db.ID,
		NomeCompleto:       db.NomeCompleto,
		Email:              db.Email,
		CPF:                db.CPF,
		Telefone:           utils.NullStringToString(db.Telefone),
		Perfil:             db.Perfil,
		SuperAdmin:         db.SuperAdmin,
		Status:             db.Status,
		MustChangePassword: db.MustChangePassword,
		ServicosPericiais:  servicos,
		CreatedAt:          db.CreatedAt.Local().Format(utils.TimeLayout),
		UpdatedAt:          utils.NullTimeToEmptyString(db.UpdatedAt),
		DeletedAt:          utils.NullTimeToEmptyString(db.DeletedAt),
	}
}

const usuarioFields = `id, nome_completo, email, cpf, telefone, senha, perfil,
	super_admin, status, must_change_password, created_at, updated_at, deleted_at`

type UsuarioRepositoryInterface interface {
	List(ctx context.Context, limit, offset uint64, search, status string) ([]dto.UsuarioDTO, uint64, error)
	ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.UsuarioDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*entities.Usuario, error)
	FindByEmail(ctx context.Context, email string) (*entities.Usuario, error)
	FindDTO(ctx context.Context, id uint64) (*dto.UsuarioDTO, error)
	DropdownPeritos(ctx context.Context, servicoID uint64) ([]dto.DropdownItemDTO, error)
	Create(ctx context.Context, payload dto.RegistrarDTO, senhaHash string) (*dto.UsuarioDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateUsuarioDTO) (*dto.UsuarioDTO, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	Aprovar(ctx context.Context, id uint64, payload dto.AprovarUsuarioDTO) error
	UpdateSenha(ctx context.Context, id uint64, senhaHash string, mustChange bool) error
	SoftDelete(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
}

type usuarioRepository struct{ storage *pgxpool.Pool }

func NewUsuarioRepository(storage *pgxpool.Pool) UsuarioRepositoryInterface {
	return &usuarioRepository{storage: storage}
}

func scanUsuario(row pgx.Row) (*dbUsuario, error) {
	var dbRow dbUsuario
	err := row.Scan(&dbRow.ID, &dbRow.NomeCompleto, &dbRow.Email, &dbRow.CPF, &dbRow.Telefone,
		&dbRow.Senha, &dbRow.Perfil, &dbRow.SuperAdmin, &dbRow.Status, &dbRow.MustChangePassword,
		&dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &dbRow, nil
}

func (r *usuarioRepository) servicosDoUsuario(ctx context.Context, q querier, usuarioID uint64) ([]uint64, error) {
	rows, err := q.Query(ctx,
		"SELECT servico_pericial_id FROM usuario_servicos_periciais WHERE usuario_id = $1 ORDER BY servico_pericial_id", usuarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	servicos := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		servicos = append(servicos, id)
	}
	return servicos, rows.Err()
}

func (r *usuarioRepository) List(ctx context.Context, limit, offset uint64, search, status string) ([]dto.UsuarioDTO, uint64, error) {
	return r.list(ctx, limit, offset, search, status, false)
}

// ListLixeira lista apenas os cadastros removidos, para restauração.
func (r *usuarioRepository) ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.UsuarioDTO, uint64, error) {
	return r.list(ctx, limit, offset, search, "", true)
}

func (r *usuarioRepository) list(ctx context.Context, limit, offset uint64, search, status string, naLixeira bool) ([]dto.UsuarioDTO, uint64, error) {
	conditions := []string{"deleted_at IS NULL"}
	if naLixeira {
		conditions = []string{"deleted_at IS NOT NULL"}
	}
	var args []interface{}
	if search != "" {
		args = append(args, "%"+search+"%")
		conditions = append(conditions, fmt.Sprintf("(nome_completo ILIKE $%d OR email ILIKE $%d OR cpf ILIKE $%d)",
			len(args), len(args), len(args)))
	}
	if status != "" {
		args = append(args, status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM usuarios %s", whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.UsuarioDTO{}, 0, nil
	}

	queryArgs := append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM usuarios %s ORDER BY nome_completo LIMIT $%d OFFSET $%d",
		usuarioFields, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}

	dbRows := make([]dbUsuario, 0)
	for rows.Next() {
		var dbRow dbUsuario
		if err := rows.Scan(&dbRow.ID, &dbRow.NomeCompleto, &dbRow.Email, &dbRow.CPF, &dbRow.Telefone,
			&dbRow.Senha, &dbRow.Perfil, &dbRow.SuperAdmin, &dbRow.Status, &dbRow.MustChangePassword,
			&dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt); err != nil {
			rows.Close()
			return nil, 0, err
		}
		dbRows = append(dbRows, dbRow)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	usuarios := make([]dto.UsuarioDTO, 0, len(dbRows))
	for i := range dbRows {
		servicos, err := r.servicosDoUsuario(ctx, r.storage, dbRows[i].ID)
		if err != nil {
			return nil, 0, err
		}
		usuarios = append(usuarios, dbRows[i].ToDTO(servicos))
	}
	return usuarios, total, nil
}

func (r *usuarioRepository) Find(ctx context.Context, id uint64) (*entities.Usuario, error) {
	query := fmt.Sprintf("SELECT %s FROM usuarios WHERE id = $1 AND deleted_at IS NULL", usuarioFields)
	dbRow, err := scanUsuario(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	servicos, err := r.servicosDoUsuario(ctx, r.storage, dbRow.ID)
	if err != nil {
		return nil, err
	}
	usuario := dbRow.ToEntity(servicos)
	return &usuario, nil
}

func (r *usuarioRepository) FindByEmail(ctx context.Context, email string) (*entities.Usuario, error) {
	query := fmt.Sprintf("SELECT %s FROM usuarios WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL", usuarioFields)
	dbRow, err := scanUsuario(r.storage.QueryRow(ctx, query, email))
	if err != nil {
		return nil, err
	}
	servicos, err := r.servicosDoUsuario(ctx, r.storage, dbRow.ID)
	if err != nil {
		return nil, err
	}
	usuario := dbRow.ToEntity(servicos)
	return &usuario, nil
}

func (r *usuarioRepository) FindDTO(ctx context.Context, id uint64) (*dto.UsuarioDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM usuarios WHERE id = $1 AND deleted_at IS NULL", usuarioFields)
	dbRow, err := scanUsuario(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	servicos, err := r.servicosDoUsuario(ctx, r.storage, dbRow.ID)
	if err != nil {
		return nil, err
	}
	result := dbRow.ToDTO(servicos)
	return &result, nil
}

// DropdownPeritos lista peritos ativos, opcionalmente restritos a um
// serviço pericial, para o campo de designação da ordem de serviço.
func (r *usuarioRepository) DropdownPeritos(ctx context.Context, servicoID uint64) ([]dto.DropdownItemDTO, error) {
	query := `
		SELECT u.id, u.nome_completo FROM usuarios u
		WHERE u.perfil = 'PERITO' AND u.status = 'ATIVO' AND u.deleted_at IS NULL`
	var args []interface{}
	if servicoID > 0 {
		query += ` AND EXISTS (
			SELECT 1 FROM usuario_servicos_periciais usp
			WHERE usp.usuario_id = u.id AND usp.servico_pericial_id = $1)`
		args = append(args, servicoID)
	}
	query += " ORDER BY u.nome_completo"

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]dto.DropdownItemDTO, 0)
	for rows.Next() {
		var item dto.DropdownItemDTO
		if err := rows.Scan(&item.ID, &item.Nome); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *usuarioRepository) Create(ctx context.Context, payload dto.RegistrarDTO, senhaHash string) (*dto.UsuarioDTO, error) {
	query := fmt.Sprintf(`
		INSERT INTO usuarios (nome_completo, email, cpf, telefone, senha, status)
		VALUES ($1, LOWER($2), $3, NULLIF($4, ''), $5, 'PENDENTE')
		RETURNING %s`, usuarioFields)
	dbRow, err := scanUsuario(r.storage.QueryRow(ctx, query,
		payload.NomeCompleto, payload.Email, payload.CPF, payload.Telefone, senhaHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.NewHttpError(409, "E-mail ou CPF já cadastrado", apperrors.ErrConflict, nil)
		}
		return nil, err
	}
	result := dbRow.ToDTO(nil)
	return &result, nil
}

func (r *usuarioRepository) replaceServicos(ctx context.Context, tx pgx.Tx, usuarioID uint64, servicos []uint64) error {
	if _, err := tx.Exec(ctx, "DELETE FROM usuario_servicos_periciais WHERE usuario_id = $1", usuarioID); err != nil {
		return err
	}
	for _, servicoID := range servicos {
		if _, err := tx.Exec(ctx,
			"INSERT INTO usuario_servicos_periciais (usuario_id, servico_pericial_id) VALUES ($1, $2)",
			usuarioID, servicoID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return apperrors.NewHttpError(422, "Serviço pericial informado não existe", apperrors.ErrNotFound, nil)
			}
			return err
		}
	}
	return nil
}

func (r *usuarioRepository) Update(ctx context.Context, id uint64, payload dto.UpdateUsuarioDTO) (*dto.UsuarioDTO, error) {
	err := WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		var setClauses []string
		var args []interface{}

		if payload.NomeCompleto.Valid {
			args = append(args, payload.NomeCompleto.String)
			setClauses = append(setClauses, fmt.Sprintf("nome_completo = $%d", len(args)))
		}
		if payload.Telefone.Valid {
			args = append(args, payload.Telefone.String)
			setClauses = append(setClauses, fmt.Sprintf("telefone = NULLIF($%d, '')", len(args)))
		}
		if payload.Perfil.Valid {
			args = append(args, payload.Perfil.String)
			setClauses = append(setClauses, fmt.Sprintf("perfil = $%d", len(args)))
		}

		if len(setClauses) > 0 {
			setClauses = append(setClauses, "updated_at = NOW()")
			args = append(args, id)
			query := fmt.Sprintf("UPDATE usuarios SET %s WHERE id = $%d AND deleted_at IS NULL",
				strings.Join(setClauses, ", "), len(args))
			result, err := tx.Exec(ctx, query, args...)
			if err != nil {
				return err
			}
			if result.RowsAffected() == 0 {
				return apperrors.ErrUserNotFound
			}
		}

		if payload.ServicosPericiais != nil {
			return r.replaceServicos(ctx, tx, id, payload.ServicosPericiais)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindDTO(ctx, id)
}

func (r *usuarioRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE usuarios SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL", status, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Aprovar ativa o cadastro pendente atribuindo perfil e escopos em uma
// única transação.
func (r *usuarioRepository) Aprovar(ctx context.Context, id uint64, payload dto.AprovarUsuarioDTO) error {
	return WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			"UPDATE usuarios SET status = 'ATIVO', perfil = $1, updated_at = NOW() WHERE id = $2 AND status = 'PENDENTE' AND deleted_at IS NULL",
			payload.Perfil, id)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return apperrors.NewHttpError(409, "Usuário não está pendente de aprovação", apperrors.ErrConflict, nil)
		}
		return r.replaceServicos(ctx, tx, id, payload.ServicosPericiais)
	})
}

func (r *usuarioRepository) UpdateSenha(ctx context.Context, id uint64, senhaHash string, mustChange bool) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE usuarios SET senha = $1, must_change_password = $2, updated_at = NOW() WHERE id = $3 AND deleted_at IS NULL",
		senhaHash, mustChange, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *usuarioRepository) SoftDelete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE usuarios SET deleted_at = NOW(), status = 'INATIVO' WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Restore tira o cadastro da lixeira; ele volta INATIVO e precisa ser
// reativado pelo administrador.
func (r *usuarioRepository) Restore(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE usuarios SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
