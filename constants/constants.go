package constants

import "os"

// timer clock of the receiving MSP430 (SMCLK/4)
const ClockFrequency = 32768

// byte sent by the receiver once the first half is stored
const AckByte = 53

// information memory usable for song data (segment A is reserved)
const MemoryLimit = 192

const BaudRate = 2400

// 1 count byte, 1 pause byte, 2 tempo bytes
const SongOverhead = 4

// one tick byte and one beat byte
const NoteSize = 2

const MaxProduct = 65535

const DefaultConfigPath = "dormbell.yaml"

func GetConfigPath() string {
	path := os.Getenv("DORMBELL_CONFIG")
	if path != "" {
		return path
	}
	return DefaultConfigPath
}

func GetPort() string {
	return os.Getenv("DORMBELL_PORT")
}
