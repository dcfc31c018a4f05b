package validators

import "strings"

// IsEmailDomainValid faz uma checagem sintática do endereço: parte local
// não vazia, domínio com TLD e sem espaços. Resolução de MX fica fora do
// caminho de cadastro para não depender de DNS vivo.
func IsEmailDomainValid(email string) bool {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return false
	}

	if strings.ContainsAny(email, " \t") || strings.Contains(domain, "@") {
		return false
	}

	dot := strings.LastIndex(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}

	return true
}
