package utils

// AttributeMap is a loosely typed map of config attributes, usually decoded from JSON.
type AttributeMap map[string]interface{}
