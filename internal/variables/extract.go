// internal/variables/extract.go
package variables

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"relationship_engine/internal/domain/anchor"
)

// Name is a symbolic placeholder usable inside template messages.
type Name string

const (
	NomeAluno               Name = "NomeAluno"
	PrimeiroNome            Name = "PrimeiroNome"
	IdadeAluno              Name = "IdadeAluno"
	EmailAluno              Name = "EmailAluno"
	TelefoneAluno           Name = "TelefoneAluno"
	SaudacaoTemporal        Name = "SaudacaoTemporal"
	DiaSemana               Name = "DiaSemana"
	DataVenda               Name = "DataVenda"
	DiasDesdeVenda          Name = "DiasDesdeVenda"
	MesesTreinando          Name = "MesesTreinando"
	DataPrimeiroTreino      Name = "DataPrimeiroTreino"
	DiasDesdePrimeiroTreino Name = "DiasDesdePrimeiroTreino"
	DataUltimoTreino        Name = "DataUltimoTreino"
	DiasSemTreinar          Name = "DiasSemTreinar"
	FrequenciaTreino        Name = "FrequenciaTreino"
	MensagemProgresso       Name = "MensagemProgresso"
	DataAniversario         Name = "DataAniversario"
	DataRenovacao           Name = "DataRenovacao"
	DiasAteRenovacao        Name = "DiasAteRenovacao"
	TipoOcorrencia          Name = "TipoOcorrencia"
	DescricaoOcorrencia     Name = "DescricaoOcorrencia"
	DataOcorrencia          Name = "DataOcorrencia"
	DataAgendada            Name = "DataAgendada"
	NomeAcademia            Name = "NomeAcademia"
	NomeTreinador           Name = "NomeTreinador"
)

var weekdaysPT = [...]string{
	"domingo", "segunda-feira", "terça-feira", "quarta-feira",
	"quinta-feira", "sexta-feira", "sábado",
}

// extractors maps each symbolic name to its computation over the context.
// Every extractor must tolerate missing optional data and return "" rather
// than fail.
var extractors = map[Name]func(*Context) string{
	NomeAluno:    func(c *Context) string { return c.Student.Name },
	PrimeiroNome: func(c *Context) string { return c.Student.FirstName() },
	IdadeAluno: func(c *Context) string {
		if !c.Student.BirthDate.Valid {
			return ""
		}
		return strconv.Itoa(anchor.CalculateAge(c.Student.BirthDate.Time, c.Now))
	},
	EmailAluno:       func(c *Context) string { return c.Student.Email.String },
	TelefoneAluno:    func(c *Context) string { return c.Student.Phone.String },
	SaudacaoTemporal: func(c *Context) string { return anchor.TemporalGreeting(c.Now) },
	DiaSemana:        func(c *Context) string { return weekdaysPT[int(c.Now.Weekday())] },
	DataVenda:        func(c *Context) string { return c.Student.CreatedAt.Format(anchor.DateLayout) },
	DiasDesdeVenda: func(c *Context) string {
		return strconv.Itoa(anchor.DaysSince(c.Student.CreatedAt, c.Now))
	},
	MesesTreinando: func(c *Context) string {
		return strconv.Itoa(monthsTraining(c))
	},
	DataPrimeiroTreino: func(c *Context) string {
		if !c.Student.FirstWorkoutDate.Valid {
			return ""
		}
		return c.Student.FirstWorkoutDate.Time.Format(anchor.DateLayout)
	},
	DiasDesdePrimeiroTreino: func(c *Context) string {
		if !c.Student.FirstWorkoutDate.Valid {
			return ""
		}
		return strconv.Itoa(anchor.DaysSince(c.Student.FirstWorkoutDate.Time, c.Now))
	},
	DataUltimoTreino: func(c *Context) string {
		if !c.Student.LastWorkoutDate.Valid {
			return ""
		}
		return c.Student.LastWorkoutDate.Time.Format(anchor.DateLayout)
	},
	DiasSemTreinar: func(c *Context) string {
		if !c.Student.LastWorkoutDate.Valid {
			return ""
		}
		return strconv.Itoa(anchor.DaysSince(c.Student.LastWorkoutDate.Time, c.Now))
	},
	// Hard-coded pending a workout-history data source; do not compute.
	FrequenciaTreino:  func(c *Context) string { return "3x/semana" },
	MensagemProgresso: func(c *Context) string { return progressMessage(monthsTraining(c)) },
	DataAniversario: func(c *Context) string {
		if !c.Student.BirthDate.Valid {
			return ""
		}
		return c.Student.BirthDate.Time.Format("02/01")
	},
	DataRenovacao: func(c *Context) string { return anchorDateString(c, "renewal_date") },
	DiasAteRenovacao: func(c *Context) string {
		if c.Anchor == nil {
			return ""
		}
		return strconv.Itoa(anchor.DaysUntil(c.Anchor.AnchorDate, c.Now))
	},
	TipoOcorrencia:      func(c *Context) string { return anchorString(c, "occurrence_type") },
	DescricaoOcorrencia: func(c *Context) string { return anchorString(c, "occurrence_description") },
	DataOcorrencia:      func(c *Context) string { return anchorDateString(c, "occurrence_date") },
	DataAgendada: func(c *Context) string {
		if c.Anchor == nil {
			return ""
		}
		return c.Anchor.AnchorDate.Format(anchor.DateLayout)
	},
	NomeAcademia: func(c *Context) string {
		if c.Organization == nil {
			return ""
		}
		return c.Organization.Name
	},
	NomeTreinador: func(c *Context) string {
		if c.Trainer == nil {
			return ""
		}
		return c.Trainer.Name
	},
}

func monthsTraining(c *Context) int {
	months := anchor.DaysSince(c.Student.CreatedAt, c.Now) / 30
	if months < 0 {
		return 0
	}
	return months
}

// progressMessage buckets months of training into a canned phrase. Like the
// training frequency, the copy is a placeholder until real progress data is
// wired in.
func progressMessage(months int) string {
	switch {
	case months < 1:
		return "Você está começando sua jornada, continue firme!"
	case months < 3:
		return "Já são seus primeiros meses de treino, os resultados estão chegando!"
	case months < 6:
		return "Você já criou o hábito, seu corpo agradece!"
	case months < 12:
		return "Mais de meio ano de dedicação, orgulho demais!"
	default:
		return "Mais de um ano de treino, você é inspiração!"
	}
}

func anchorString(c *Context, key string) string {
	if c.Anchor == nil || c.Anchor.AdditionalData == nil {
		return ""
	}
	switch v := c.Anchor.AdditionalData[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func anchorDateString(c *Context, key string) string {
	if c.Anchor == nil || c.Anchor.AdditionalData == nil {
		return ""
	}
	switch v := c.Anchor.AdditionalData[key].(type) {
	case time.Time:
		return v.Format(anchor.DateLayout)
	case string:
		return v
	default:
		return ""
	}
}

// Extract resolves one symbolic name against the context. Unknown names
// fall back to the custom map and then to the empty string; extraction
// never fails on an unrecognized name.
func Extract(c *Context, name Name) string {
	if fn, ok := extractors[name]; ok {
		return fn(c)
	}
	if c.Custom != nil {
		if v, ok := c.Custom[string(name)]; ok {
			return v
		}
	}
	return ""
}

var placeholderRe = regexp.MustCompile(`\{([^{}]+)\}`)

// RenderMessage substitutes {Placeholder} occurrences in a template message
// with extracted values, and reports which variable names were used.
func RenderMessage(message string, c *Context) (string, []string) {
	var used []string
	rendered := placeholderRe.ReplaceAllStringFunc(message, func(m string) string {
		name := m[1 : len(m)-1]
		used = append(used, name)
		return Extract(c, Name(name))
	})
	return rendered, used
}
