package database

// Distinct devolve os valores de list sem repetição, na ordem da primeira
// ocorrência. Listas gravadas como conjunto (e-mails, telefones) passam por
// aqui antes dos INSERTs para não violar a chave composta.
func Distinct[T comparable](list []T) []T {
	seen := make(map[T]struct{}, len(list))
	out := make([]T, 0, len(list))
	for _, v := range list {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
