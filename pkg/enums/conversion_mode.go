package enums

// CartConversionMode says how wishlist lines reached the cart.
type CartConversionMode string

const (
	CartConversionMerge   CartConversionMode = "merge"
	CartConversionReplace CartConversionMode = "replace"
)
