package main

// Valid definition file formats for the create command.
var validFormats = []string{"yaml", "json"}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
