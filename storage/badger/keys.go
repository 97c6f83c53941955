package badger

import "fmt"

// Key prefixes for different data types
const (
	vehicleRecordPrefix = "vehrec"
	vectorEntryPrefix   = "vehvec"
)

// makeVehicleKey generates a key for a catalog record by partner identifier.
func makeVehicleKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", vehicleRecordPrefix, id))
}

// makeVectorKey generates a key for a vector index entry by partner identifier.
func makeVectorKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", vectorEntryPrefix, id))
}
