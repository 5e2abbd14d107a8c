package certificate

import (
	"math"
	"strings"
)

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// twoDigits converts 0-99 to words
func twoDigits(n int) string {
	if n < 20 {
		return onesWords[n]
	}
	if n%10 == 0 {
		return tensWords[n/10]
	}
	return tensWords[n/10] + " " + onesWords[n%10]
}

// threeDigits converts 0-999 to words
func threeDigits(n int) string {
	if n < 100 {
		return twoDigits(n)
	}
	s := onesWords[n/100] + " Hundred"
	if n%100 != 0 {
		s += " " + twoDigits(n%100)
	}
	return s
}

// integerToIndianWords converts a non-negative integer to words using the
// Indian grouping system: crore (1,00,00,000), lakh (1,00,000), thousand.
func integerToIndianWords(n int64) string {
	if n == 0 {
		return "Zero"
	}

	var parts []string
	if crore := n / 10000000; crore > 0 {
		// crores above 99 recurse so arbitrarily large amounts still read
		// Indian-style ("One Hundred Crore")
		parts = append(parts, integerToIndianWords(crore)+" Crore")
		n %= 10000000
	}
	if lakh := n / 100000; lakh > 0 {
		parts = append(parts, twoDigits(int(lakh))+" Lakh")
		n %= 100000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, twoDigits(int(thousand))+" Thousand")
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, threeDigits(int(n)))
	}
	return strings.Join(parts, " ")
}

// AmountInWords renders a monetary amount as Indian-style words, e.g.
// 2550750.50 becomes "Rupees Twenty Five Lakh Fifty Thousand Seven Hundred
// Fifty and Fifty Paise Only".
func AmountInWords(amount float64) string {
	rupees := int64(amount)
	paise := int64(math.Round((amount - float64(rupees)) * 100))
	if paise == 100 { // rounding carried over
		rupees++
		paise = 0
	}

	words := "Rupees " + integerToIndianWords(rupees)
	if paise > 0 {
		words += " and " + twoDigits(int(paise)) + " Paise"
	}
	return words + " Only"
}
