package peer

import "strings"

// Bluetooth SIG company IDs of phone and wearable vendors that pair with
// swing. See: https://www.bluetooth.com/specifications/assigned-numbers/
var phoneVendors = map[uint16]string{
	0x004C: "Apple",
	0x00E0: "Google",
	0x0075: "Samsung",
	0x0310: "Xiaomi",
	0x0157: "Huawei",
	0x038F: "Garmin",
	0x012D: "Sony",
	0x00D2: "LG",
	0x0060: "Motorola",
	0x03DA: "Fitbit",
	0x0059: "Nordic", // dev boards running the phone emulator
	0x015D: "Espressif",
}

// LookupVendor returns the vendor name for a company ID, or "".
func LookupVendor(companyID uint16) string {
	return phoneVendors[companyID]
}

// vendorLabel names a peer "<Vendor> <last two octets>", e.g. "Google EE:FF".
func vendorLabel(companyID uint16, address string) string {
	vendor := LookupVendor(companyID)
	if vendor == "" {
		return ""
	}
	parts := strings.Split(address, ":")
	if len(parts) < 2 {
		return vendor
	}
	return vendor + " " + strings.Join(parts[len(parts)-2:], ":")
}
