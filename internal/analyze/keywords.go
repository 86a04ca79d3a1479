package analyze

import "strings"

// Header keyword groups, English and Indonesian. Matching is by
// case-insensitive substring, the way the source data actually names columns
// ("Jumlah Barang", "Harga Satuan", "Total Harga").
var (
	identityKeywords = []string{"name", "nama", "email", "phone", "telepon", "telp", "hp", "id"}
	quantityKeywords = []string{"qty", "quantity", "jumlah", "banyak"}
	priceKeywords    = []string{"price", "harga", "tarif"}
	totalKeywords    = []string{"total", "subtotal", "amount"}
	moneyKeywords    = []string{"qty", "quantity", "jumlah", "price", "harga", "amount", "total", "nilai"}
	sequenceKeywords = []string{"no", "nomor", "number", "id", "kode", "code", "urut"}
	taxBaseKeywords  = []string{"dpp", "dasar pengenaan"}
	vatKeywords      = []string{"ppn", "vat", "pajak pertambahan"}
)

func matchesAny(header string, keywords []string) bool {
	h := strings.ToLower(header)
	for _, kw := range keywords {
		// Two-letter keywords ("no", "id", "hp") match whole tokens only, so
		// "Phone" does not count as a "no" column.
		if len(kw) <= 2 {
			for _, tok := range strings.FieldsFunc(h, func(r rune) bool {
				return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
			}) {
				if tok == kw {
					return true
				}
			}
			continue
		}
		if strings.Contains(h, kw) {
			return true
		}
	}
	return false
}

// firstMatching returns the first header matching any keyword, preferring
// header order so the choice is deterministic.
func firstMatching(headers []string, keywords []string) (string, bool) {
	for _, h := range headers {
		if matchesAny(h, keywords) {
			return h, true
		}
	}
	return "", false
}
