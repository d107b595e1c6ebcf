package employeerepo

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"gohotel/internal/domain"
	"gohotel/internal/errors"
	"gohotel/internal/pkg/database"
	"gohotel/internal/pkg/logger"
	"gohotel/internal/repository/personrepo"
)

// PersonWriter grava a linha de Persona dentro da transação do insert composto.
type PersonWriter interface {
	InsertWith(ctx context.Context, exec database.DBTX, p domain.Person) error
}

// EmployeeRepository implementa as operações da tabela Empleado.
type EmployeeRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	persons   PersonWriter
	logger    logger.Logger
}

// NewEmployeeRepository cria e retorna uma nova instância do Repositório de Funcionários.
func NewEmployeeRepository(db *sql.DB, dbTimeout time.Duration, persons PersonWriter, logger logger.Logger) *EmployeeRepository {
	return &EmployeeRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		persons:   persons,
		logger:    logger,
	}
}

const (
	insertQuery = `INSERT INTO Empleado (cedulaPer, cargo, idArea) VALUES ($1, $2, $3)`

	fromJoin = `
        FROM Persona p
        INNER JOIN Empleado e ON p.cedulaPer = e.cedulaPer`
)

func selectEmployee() string {
	return `SELECT ` + personrepo.Columns("p") + `, e.cargo, e.idArea`
}

func scanTargets(e *domain.Employee) []interface{} {
	return append(personrepo.ScanTargets(&e.Person), &e.Position, &e.AreaID)
}

// Insert registra o papel de funcionário para uma pessoa já existente.
func (r *EmployeeRepository) Insert(ctx context.Context, e domain.Employee) error {
	r.logger.Debug("Iniciando Insert de funcionário no repositório.", map[string]interface{}{"cedula": e.Cedula})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if err := r.insertRole(ctxTimeout, r.DB, e); err != nil {
		r.logger.Error("Falha ao inserir funcionário no DB.", err)
		return err
	}

	r.logger.Info("Funcionário inserido com sucesso.", map[string]interface{}{"cedula": e.Cedula, "area": e.AreaID})
	return nil
}

// InsertComplete grava Persona e Empleado numa única transação.
func (r *EmployeeRepository) InsertComplete(ctx context.Context, e domain.Employee) error {
	r.logger.Debug("Iniciando InsertComplete de funcionário no repositório.", map[string]interface{}{"cedula": e.Cedula})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := database.WithTx(ctxTimeout, r.DB, func(tx *sql.Tx) error {
		if err := r.persons.InsertWith(ctxTimeout, tx, e.Person); err != nil {
			return err
		}
		return r.insertRole(ctxTimeout, tx, e)
	})
	if err != nil {
		r.logger.Error("Falha no insert completo de funcionário, transação desfeita.", err)
		return err
	}

	r.logger.Info("Funcionário completo inserido com sucesso.", map[string]interface{}{"cedula": e.Cedula, "area": e.AreaID})
	return nil
}

func (r *EmployeeRepository) insertRole(ctx context.Context, exec database.DBTX, e domain.Employee) error {
	result, err := exec.ExecContext(ctx, insertQuery, e.Cedula, e.Position, e.AreaID)
	if err != nil {
		return errors.FromDB(fmt.Sprintf("Falha ao inserir funcionário %d", e.Cedula), err)
	}
	if err := database.CheckAffected(result); err != nil {
		return errors.NewInternalError(fmt.Sprintf("Funcionário %d não foi inserido", e.Cedula), err)
	}
	return nil
}

// Update altera cargo e área do funcionário.
func (r *EmployeeRepository) Update(ctx context.Context, e domain.Employee) error {
	r.logger.Debug("Iniciando Update de funcionário no repositório.", map[string]interface{}{"cedula": e.Cedula})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE Empleado SET cargo = $1, idArea = $2 WHERE cedulaPer = $3`, e.Position, e.AreaID, e.Cedula)
	if err != nil {
		r.logger.Error("Falha ao atualizar funcionário no DB.", err)
		return errors.FromDB("Falha ao atualizar funcionário", err)
	}
	return r.checkAffected(result, e.Cedula, "atualização")
}

// Delete remove o papel de funcionário. A linha de Persona permanece.
func (r *EmployeeRepository) Delete(ctx context.Context, cedula int64) error {
	r.logger.Debug("Iniciando Delete de funcionário no repositório.", map[string]interface{}{"cedula": cedula})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM Empleado WHERE cedulaPer = $1`, cedula)
	if err != nil {
		r.logger.Error("Falha ao deletar funcionário do DB.", err)
		return errors.FromDB("Falha ao deletar funcionário", err)
	}
	return r.checkAffected(result, cedula, "exclusão")
}

// FindByID busca o funcionário com seus dados pessoais.
func (r *EmployeeRepository) FindByID(ctx context.Context, cedula int64) (domain.Employee, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var e domain.Employee
	err := r.DB.QueryRowContext(ctxTimeout, selectEmployee()+fromJoin+` WHERE e.cedulaPer = $1`, cedula).Scan(scanTargets(&e)...)
	if err == sql.ErrNoRows {
		r.logger.Info("Funcionário não encontrado.", map[string]interface{}{"cedula": cedula})
		return domain.Employee{}, errors.NewNotFoundError(fmt.Sprintf("Funcionário com cédula %d não encontrado.", cedula))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar funcionário no DB.", err)
		return domain.Employee{}, errors.FromDB("Falha ao buscar funcionário", err)
	}
	return e, nil
}

// FindAll lista os funcionários ordenados pela cédula.
func (r *EmployeeRepository) FindAll(ctx context.Context) ([]domain.Employee, error) {
	return r.list(ctx, selectEmployee()+fromJoin+` ORDER BY p.cedulaPer`)
}

// FindByPosition lista os funcionários com o cargo exato, por sobrenome e nome.
func (r *EmployeeRepository) FindByPosition(ctx context.Context, position string) ([]domain.Employee, error) {
	return r.list(ctx, selectEmployee()+fromJoin+` WHERE e.cargo = $1 ORDER BY p.primerApell, p.primerNom`, position)
}

// FindByArea lista os funcionários de uma área, por sobrenome e nome.
func (r *EmployeeRepository) FindByArea(ctx context.Context, areaID int64) ([]domain.Employee, error) {
	return r.list(ctx, selectEmployee()+fromJoin+` WHERE e.idArea = $1 ORDER BY p.primerApell, p.primerNom`, areaID)
}

// FindAllWithDetails lista os funcionários com a área preenchida.
func (r *EmployeeRepository) FindAllWithDetails(ctx context.Context) ([]domain.Employee, error) {
	r.logger.Debug("Iniciando FindAllWithDetails de funcionários no repositório.", nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := selectEmployee() + `, a.nombreArea` + fromJoin + `
        INNER JOIN Area a ON e.idArea = a.idArea
        ORDER BY p.primerApell, p.primerNom`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar FindAllWithDetails de funcionários.", err)
		return nil, errors.FromDB("Falha ao buscar funcionários", err)
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0)
	for rows.Next() {
		var e domain.Employee
		area := &domain.Area{}
		if err := rows.Scan(append(scanTargets(&e), &area.Name)...); err != nil {
			return nil, errors.FromDB("Falha ao mapear funcionários do DB", err)
		}
		area.ID = e.AreaID
		e.Area = area
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromDB("Erro após iteração de funcionários", err)
	}

	r.logger.Info("FindAllWithDetails de funcionários concluído.", map[string]interface{}{"total": len(employees)})
	return employees, nil
}

func (r *EmployeeRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Employee, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao buscar funcionários.", err)
		return nil, errors.FromDB("Falha ao buscar funcionários", err)
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0)
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(scanTargets(&e)...); err != nil {
			return nil, errors.FromDB("Falha ao mapear funcionários do DB", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromDB("Erro após iteração de funcionários", err)
	}
	return employees, nil
}

func (r *EmployeeRepository) checkAffected(result sql.Result, cedula int64, op string) error {
	err := database.CheckAffected(result)
	if stderrors.Is(err, database.ErrNoRowsAffected) {
		r.logger.Info(fmt.Sprintf("Funcionário não encontrado para %s.", op), map[string]interface{}{"cedula": cedula})
		return errors.NewNotFoundError(fmt.Sprintf("Funcionário com cédula %d não encontrado para %s.", cedula, op))
	}
	if err != nil {
		return errors.FromDB("Falha ao verificar linhas afetadas", err)
	}
	r.logger.Info(fmt.Sprintf("Funcionário: %s concluída.", op), map[string]interface{}{"cedula": cedula})
	return nil
}
