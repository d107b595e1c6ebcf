package domain

// Person representa a tabela Persona. A cédula é a chave natural e não muda
// depois da criação.
type Person struct {
	Cedula        int64  `json:"cedula" validate:"gt=0"`
	FirstName     string `json:"firstName" validate:"required,max=50"`
	MiddleName    string `json:"middleName,omitempty" validate:"max=50"`
	FirstSurname  string `json:"firstSurname" validate:"required,max=50"`
	SecondSurname string `json:"secondSurname,omitempty" validate:"max=50"`

	// Endereço no formato calle/carrera/número usado pelo hotel.
	Street     string `json:"street,omitempty" validate:"max=50"`
	Avenue     string `json:"avenue,omitempty" validate:"max=50"`
	Number     string `json:"number,omitempty" validate:"max=20"`
	Complement string `json:"complement,omitempty" validate:"max=100"`
}

// FullName junta nomes e sobrenomes ignorando os campos vazios.
func (p Person) FullName() string {
	name := ""
	for _, part := range []string{p.FirstName, p.MiddleName, p.FirstSurname, p.SecondSurname} {
		if part == "" {
			continue
		}
		if name != "" {
			name += " "
		}
		name += part
	}
	return name
}

// Client é o papel de hóspede de uma Person (tabela Cliente). Os e-mails são
// um atributo multivalorado guardado em Correo.
type Client struct {
	Person
	Emails []string `json:"emails" validate:"dive,email,max=100"`
}

// Employee é o papel de funcionário de uma Person (tabela Empleado).
type Employee struct {
	Person
	Position string `json:"position" validate:"required,max=50"`
	AreaID   int64  `json:"areaId" validate:"gt=0"`

	// Preenchido apenas pelas consultas com detalhes (join com Area).
	Area *Area `json:"area,omitempty"`
}

// Area agrupa funcionários (recepção, limpeza, tecnologia...).
type Area struct {
	ID   int64  `json:"id" validate:"gt=0"`
	Name string `json:"name" validate:"required,max=50"`
}

// Email é uma linha de Correo: (cédula, endereço) é a chave.
type Email struct {
	Cedula  int64  `json:"cedula"`
	Address string `json:"address"`
}

// Phone é uma linha de TelefonoPer: (cédula, número) é a chave.
type Phone struct {
	Cedula int64 `json:"cedula"`
	Number int64 `json:"number"`
}
