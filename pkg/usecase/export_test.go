package usecase

// ExtractBadge is exported for testing
var ExtractBadge = extractBadge

// BalancedObject is exported for testing
var BalancedObject = balancedObject

// FieldText is exported for testing
var FieldText = fieldText
