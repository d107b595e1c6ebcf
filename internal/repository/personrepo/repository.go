package personrepo

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"gohotel/internal/domain"
	"gohotel/internal/errors"
	"gohotel/internal/pkg/database"
	"gohotel/internal/pkg/logger"
)

// PersonRepository implementa as operações CRUD da tabela Persona.
type PersonRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewPersonRepository cria e retorna uma nova instância do Repositório de Pessoas.
func NewPersonRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *PersonRepository {
	return &PersonRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Columns devolve a lista de colunas de Persona na ordem esperada por
// ScanTargets, prefixadas por alias quando informado. Colunas opcionais vêm
// com COALESCE para que NULL seja lido como string vazia.
func Columns(alias string) string {
	p := ""
	if alias != "" {
		p = alias + "."
	}
	cols := []string{
		p + "cedulaPer",
		p + "primerNom",
		fmt.Sprintf("COALESCE(%ssegundoNom, '')", p),
		p + "primerApell",
		fmt.Sprintf("COALESCE(%ssegundoApell, '')", p),
		fmt.Sprintf("COALESCE(%scalle, '')", p),
		fmt.Sprintf("COALESCE(%scarrera, '')", p),
		fmt.Sprintf("COALESCE(%snumero, '')", p),
		fmt.Sprintf("COALESCE(%scomplemento, '')", p),
	}
	return strings.Join(cols, ", ")
}

// ScanTargets devolve os destinos de Scan para as colunas de Columns.
func ScanTargets(p *domain.Person) []interface{} {
	return []interface{}{
		&p.Cedula, &p.FirstName, &p.MiddleName, &p.FirstSurname, &p.SecondSurname,
		&p.Street, &p.Avenue, &p.Number, &p.Complement,
	}
}

const insertQuery = `
        INSERT INTO Persona (cedulaPer, primerNom, segundoNom, primerApell, segundoApell,
                             calle, carrera, numero, complemento)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Insert grava uma nova pessoa.
func (r *PersonRepository) Insert(ctx context.Context, p domain.Person) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	return r.InsertWith(ctxTimeout, r.DB, p)
}

// InsertWith grava a pessoa usando o executor informado, normalmente a
// transação de um insert composto (Cliente ou Empleado).
func (r *PersonRepository) InsertWith(ctx context.Context, exec database.DBTX, p domain.Person) error {
	r.logger.Debug("Iniciando Insert de pessoa no repositório.", map[string]interface{}{"cedula": p.Cedula})

	_, err := exec.ExecContext(ctx, insertQuery,
		p.Cedula, p.FirstName, p.MiddleName, p.FirstSurname, p.SecondSurname,
		p.Street, p.Avenue, p.Number, p.Complement,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir pessoa no DB.", err)
		return errors.FromDB(fmt.Sprintf("Falha ao inserir pessoa %d", p.Cedula), err)
	}

	r.logger.Info("Pessoa inserida com sucesso.", map[string]interface{}{"cedula": p.Cedula})
	return nil
}

// Update altera todos os campos não-chave. A cédula nunca muda.
func (r *PersonRepository) Update(ctx context.Context, p domain.Person) error {
	r.logger.Debug("Iniciando Update de pessoa no repositório.", map[string]interface{}{"cedula": p.Cedula})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE Persona
        SET primerNom = $1, segundoNom = $2, primerApell = $3, segundoApell = $4,
            calle = $5, carrera = $6, numero = $7, complemento = $8
        WHERE cedulaPer = $9`

	result, err := r.DB.ExecContext(ctxTimeout, query,
		p.FirstName, p.MiddleName, p.FirstSurname, p.SecondSurname,
		p.Street, p.Avenue, p.Number, p.Complement, p.Cedula,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar pessoa no DB.", err)
		return errors.FromDB("Falha ao atualizar pessoa", err)
	}

	if err := r.checkAffected(result, p.Cedula, "atualização"); err != nil {
		return err
	}

	r.logger.Info("Pessoa atualizada com sucesso.", map[string]interface{}{"cedula": p.Cedula})
	return nil
}

// Delete remove a pessoa. Falha com Conflict se ainda houver Cliente,
// Empleado ou telefones apontando para ela.
func (r *PersonRepository) Delete(ctx context.Context, cedula int64) error {
	r.logger.Debug("Iniciando Delete de pessoa no repositório.", map[string]interface{}{"cedula": cedula})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM Persona WHERE cedulaPer = $1`, cedula)
	if err != nil {
		r.logger.Error("Falha ao deletar pessoa do DB.", err)
		return errors.FromDB("Falha ao deletar pessoa", err)
	}

	if err := r.checkAffected(result, cedula, "exclusão"); err != nil {
		return err
	}

	r.logger.Info("Pessoa deletada com sucesso.", map[string]interface{}{"cedula": cedula})
	return nil
}

// FindByID busca uma pessoa pela cédula.
func (r *PersonRepository) FindByID(ctx context.Context, cedula int64) (domain.Person, error) {
	r.logger.Debug("Iniciando FindByID de pessoa no repositório.", map[string]interface{}{"cedula": cedula})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + Columns("") + ` FROM Persona WHERE cedulaPer = $1`

	var p domain.Person
	err := r.DB.QueryRowContext(ctxTimeout, query, cedula).Scan(ScanTargets(&p)...)
	if err == sql.ErrNoRows {
		r.logger.Info("Pessoa não encontrada.", map[string]interface{}{"cedula": cedula})
		return domain.Person{}, errors.NewNotFoundError(fmt.Sprintf("Pessoa com cédula %d não encontrada.", cedula))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar pessoa no DB.", err)
		return domain.Person{}, errors.FromDB("Falha ao buscar pessoa", err)
	}

	return p, nil
}

// FindAll lista todas as pessoas ordenadas pela cédula.
func (r *PersonRepository) FindAll(ctx context.Context) ([]domain.Person, error) {
	query := `SELECT ` + Columns("") + ` FROM Persona ORDER BY cedulaPer`
	return r.list(ctx, "FindAll", query)
}

// FindBySurname busca pessoas cujo primeiro ou segundo sobrenome contenha s.
// A comparação diferencia maiúsculas de minúsculas.
func (r *PersonRepository) FindBySurname(ctx context.Context, s string) ([]domain.Person, error) {
	query := `SELECT ` + Columns("") + `
        FROM Persona
        WHERE primerApell LIKE $1 OR segundoApell LIKE $1
        ORDER BY primerApell, primerNom`
	return r.list(ctx, "FindBySurname", query, "%"+s+"%")
}

func (r *PersonRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]domain.Person, error) {
	r.logger.Debug(fmt.Sprintf("Iniciando %s de pessoas no repositório.", op), nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error(fmt.Sprintf("Falha ao executar %s de pessoas.", op), err)
		return nil, errors.FromDB("Falha ao buscar pessoas", err)
	}
	defer rows.Close()

	persons := make([]domain.Person, 0)
	for rows.Next() {
		var p domain.Person
		if err := rows.Scan(ScanTargets(&p)...); err != nil {
			r.logger.Error("Falha ao mapear pessoa.", err)
			return nil, errors.FromDB("Falha ao mapear pessoas do DB", err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de pessoas.", err)
		return nil, errors.FromDB("Erro após iteração de pessoas", err)
	}

	r.logger.Info(fmt.Sprintf("%s de pessoas concluído.", op), map[string]interface{}{"total": len(persons)})
	return persons, nil
}

func (r *PersonRepository) checkAffected(result sql.Result, cedula int64, op string) error {
	err := database.CheckAffected(result)
	if stderrors.Is(err, database.ErrNoRowsAffected) {
		r.logger.Info(fmt.Sprintf("Pessoa não encontrada para %s.", op), map[string]interface{}{"cedula": cedula})
		return errors.NewNotFoundError(fmt.Sprintf("Pessoa com cédula %d não encontrada para %s.", cedula, op))
	}
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas.", err)
		return errors.FromDB("Falha ao verificar linhas afetadas", err)
	}
	return nil
}
