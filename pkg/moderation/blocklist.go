// Package moderation — verificação de palavrões em nomes de exibição.
//
// A validação roda no registro do espectador: o nome aparece no chat da
// transmissão e na contagem pública, então um filtro mínimo é obrigatório.
// A lista cobre os termos mais comuns em pt-BR e en; não é (nem tenta ser)
// um filtro perfeito — moderação fina é papel do administrador no painel.
//
// Por que um pacote separado?
// models precisa do filtro para Validate(), e nenhum outro pacote do projeto
// deve importar models só para checar uma string. moderation é uma
// leaf dependency: não importa nada do projeto.
package moderation

import "strings"

// blocklist — termos proibidos, sempre em minúsculas.
// A comparação usa Contains depois de normalizar, então variações com
// espaços ou sufixos também são pegas ("xxmerdaxx" → bloqueado).
var blocklist = []string{
	"merda",
	"bosta",
	"caralho",
	"porra",
	"puta",
	"puto",
	"viado",
	"buceta",
	"cacete",
	"arrombado",
	"fdp",
	"vsf",
	"krl",
	"fuck",
	"shit",
	"bitch",
	"asshole",
	"cunt",
	"dick",
	"nigger",
}

// ContainsProfanity retorna true se o nome contém algum termo bloqueado.
// A normalização remove espaços e baixa a caixa antes de comparar,
// derrotando truques simples como "M e r d a".
func ContainsProfanity(name string) bool {
	normalized := strings.ToLower(name)
	collapsed := strings.Map(func(r rune) rune {
		if r == ' ' || r == '.' || r == '_' || r == '-' {
			return -1 // -1 em strings.Map remove o caractere
		}
		return r
	}, normalized)

	for _, term := range blocklist {
		if strings.Contains(normalized, term) || strings.Contains(collapsed, term) {
			return true
		}
	}
	return false
}
