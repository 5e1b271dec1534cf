package models

const (
	// ContextVariable and QuestionVariable are the slots of PromptTemplate.
	ContextVariable  = "contexto_banco_de_dados"
	QuestionVariable = "pergunta"

	ContextSeparator = "\n\n"

	NoInformationAnswer = "Não tenho informações necessárias para responder sua pergunta."

	AnswerPrefix  = "RESPOSTA: "
	QuestionInput = "Faça sua pergunta: "
	WelcomeText   = "Bem-vindo ao chat! Faça sua pergunta ou digite 'sair' para encerrar."
	ExitCommand   = "sair"
)

// PromptTemplate is an f-string template; the answer rules are enforced only
// by this wording.
var PromptTemplate = `
CONTEXTO:
{contexto_banco_de_dados}

REGRAS:
- Responda somente com base no CONTEXTO.
- Se a informação não estiver explicitamente no CONTEXTO, responda:
  "Não tenho informações necessárias para responder sua pergunta."
- Nunca invente ou use conhecimento externo.
- Nunca produza opiniões ou interpretações além do que está escrito.

EXEMPLOS DE PERGUNTAS FORA DO CONTEXTO:
Pergunta: "Qual é a capital da França?"
Resposta: "Não tenho informações necessárias para responder sua pergunta."

Pergunta: "Quantos clientes temos em 2024?"
Resposta: "Não tenho informações necessárias para responder sua pergunta."

Pergunta: "Você acha isso bom ou ruim?"
Resposta: "Não tenho informações necessárias para responder sua pergunta."

PERGUNTA DO USUÁRIO:
{pergunta}

RESPONDA A "PERGUNTA DO USUÁRIO"
`
