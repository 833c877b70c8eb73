// internal/variables/catalog.go
package variables

import "relationship_engine/internal/domain/anchor"

// Category groups variables for UI hinting.
type Category string

const (
	CategoryStudent    Category = "aluno"
	CategoryTemporal   Category = "temporal"
	CategoryTraining   Category = "treino"
	CategoryRenewal    Category = "renovação"
	CategoryOccurrence Category = "ocorrência"
	CategoryOrg        Category = "academia"
)

// Doc describes one variable for template-editor hinting.
type Doc struct {
	Name        Name
	Description string
	Example     string
	Category    Category
}

var commonVariables = []Doc{
	{NomeAluno, "Nome completo do aluno", "Maria Clara Souza", CategoryStudent},
	{PrimeiroNome, "Primeiro nome do aluno", "Maria", CategoryStudent},
	{IdadeAluno, "Idade do aluno em anos", "29", CategoryStudent},
	{SaudacaoTemporal, "Saudação conforme o horário", "Bom dia", CategoryTemporal},
	{DiaSemana, "Dia da semana atual", "segunda-feira", CategoryTemporal},
	{NomeAcademia, "Nome da academia", "Academia Corpo em Forma", CategoryOrg},
	{NomeTreinador, "Nome do treinador responsável", "Carlos", CategoryOrg},
}

// AnchorVariables documents, per anchor code, which variable names are
// semantically valid. Used for UI hinting and template validation only;
// extraction does not enforce it.
var AnchorVariables = map[anchor.EventCode][]Doc{
	anchor.EventSaleClose: append(commonVariables,
		Doc{DataVenda, "Data de fechamento da venda", "12/03/2026", CategoryTemporal},
		Doc{DiasDesdeVenda, "Dias desde a matrícula", "0", CategoryTemporal},
	),
	anchor.EventFirstWorkout: append(commonVariables,
		Doc{DataPrimeiroTreino, "Data do primeiro treino", "15/03/2026", CategoryTraining},
		Doc{DiasDesdePrimeiroTreino, "Dias desde o primeiro treino", "1", CategoryTraining},
	),
	anchor.EventRenewalWindow: append(commonVariables,
		Doc{DataRenovacao, "Data da próxima renovação", "30/09/2026", CategoryRenewal},
		Doc{DiasAteRenovacao, "Dias restantes até a renovação", "7", CategoryRenewal},
	),
	anchor.EventBirthday: append(commonVariables,
		Doc{DataAniversario, "Dia e mês do aniversário", "22/08", CategoryStudent},
	),
	anchor.EventTrainingFollowup: append(commonVariables,
		Doc{DataUltimoTreino, "Data do último treino registrado", "24/08/2026", CategoryTraining},
		Doc{DiasSemTreinar, "Dias sem treinar", "7", CategoryTraining},
		Doc{FrequenciaTreino, "Frequência média de treino", "3x/semana", CategoryTraining},
		Doc{MensagemProgresso, "Mensagem de progresso do aluno", "Você já criou o hábito!", CategoryTraining},
	),
	anchor.EventOccurrenceFollowup: append(commonVariables,
		Doc{TipoOcorrencia, "Tipo da ocorrência registrada", "lesão", CategoryOccurrence},
		Doc{DescricaoOcorrencia, "Descrição da ocorrência", "Dor no joelho direito", CategoryOccurrence},
		Doc{DataOcorrencia, "Data da ocorrência", "28/08/2026", CategoryOccurrence},
		Doc{DataAgendada, "Data agendada do contato", "31/08/2026", CategoryOccurrence},
	),
}

// VariablesForAnchor returns the documented variables for an anchor code,
// or the common set when the code has no specific entry.
func VariablesForAnchor(code anchor.EventCode) []Doc {
	if docs, ok := AnchorVariables[code]; ok {
		return docs
	}
	return commonVariables
}
