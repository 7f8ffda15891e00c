package domain

// DefaultCurrencyCode is used when money is built without an explicit currency.
const DefaultCurrencyCode = CurrencyEUR

// MaxTitleLength is the longest title, in characters, an ad may carry.
const MaxTitleLength = 100
