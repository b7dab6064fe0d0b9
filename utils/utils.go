package utils

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"
)

// ReadFile returns the contents of a file at 'path'
func ReadFile(path string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// DecodeHex turns a hex dump into bytes. Whitespace, colons and a leading 0x
// are ignored so values can be pasted straight out of MFCMAPI or OutlookSpy.
func DecodeHex(str string) ([]byte, error) {
	str = strings.TrimPrefix(strings.TrimSpace(str), "0x")
	str = strings.NewReplacer(" ", "", "\n", "", "\r", "", "\t", "", ":", "", "-", "").Replace(str)
	data, err := hex.DecodeString(str)
	if err != nil {
		return nil, fmt.Errorf("Invalid hex value: %s", err)
	}
	return data, nil
}

// FromUnicode read UTF-16LE bytes (no terminator) and convert to a string
func FromUnicode(uni []byte) string {
	str, err := utf16le.NewDecoder().Bytes(uni)
	if err != nil {
		return ""
	}
	return string(str)
}

// UniString converts a string into a NUL-terminated UTF-16LE byte array
func UniString(str string) []byte {
	bt, err := utf16le.NewEncoder().Bytes([]byte(str))
	if err != nil {
		return nil
	}
	return append(bt, []byte{0x00, 0x00}...)
}

// ASCIIString converts a string into a NUL-terminated 8-bit byte array
func ASCIIString(str string) []byte {
	return append([]byte(str), 0x00)
}

// EncodeNum encode a number as a byte array
func EncodeNum(v interface{}) []byte {
	byteNum := new(bytes.Buffer)
	binary.Write(byteNum, binary.LittleEndian, v)
	return byteNum.Bytes()
}

// BodyToBytes serializes a wire struct field by field: unsigned integers
// little-endian, byte slices and arrays raw, nested structs and slices
// recursively. Test fixtures use it as the reference encoder.
func BodyToBytes(DataStruct interface{}) []byte {
	dumped := []byte{}
	v := reflect.ValueOf(DataStruct)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	//check if we have a slice of structs
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return append(dumped, bytesOf(v)...)
		}
		for i := 0; i < v.Len(); i++ {
			dumped = append(dumped, valueToBytes(v.Index(i))...)
		}
		return dumped
	}
	for i := 0; i < v.NumField(); i++ {
		dumped = append(dumped, valueToBytes(v.Field(i))...)
	}
	return dumped
}

func valueToBytes(v reflect.Value) []byte {
	switch v.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return EncodeNum(v.Interface())
	case reflect.Struct, reflect.Slice, reflect.Array, reflect.Interface, reflect.Ptr:
		if v.IsZero() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr) {
			return nil
		}
		return BodyToBytes(v.Interface())
	}
	panic(fmt.Sprintf("BodyToBytes: unsupported kind %s", v.Kind()))
}

func bytesOf(v reflect.Value) []byte {
	out := make([]byte, v.Len())
	for i := range out {
		out[i] = byte(v.Index(i).Uint())
	}
	return out
}

// ReadYml reads the supplied config file, Unmarshals the data into the global config struct.
func ReadYml(yml string) (YamlConfig, error) {
	var config YamlConfig
	data, err := os.ReadFile(yml)
	if err != nil {
		return YamlConfig{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return YamlConfig{}, err
	}
	return config, err
}

// GUIDToByteArray mimics Guid.ToByteArray Method () from .NET
// The example displays the following output:
//
//	Guid: 35918bc9-196d-40ea-9779-889d79b753f0
//	C9 8B 91 35 6D 19 EA 40 97 79 88 9D 79 B7 53 F0
func GUIDToByteArray(guid string) (array []byte, err error) {
	u, err := uuid.Parse(strings.Trim(guid, "{}"))
	if err != nil {
		return nil, fmt.Errorf("Invalid GUID")
	}
	array = make([]byte, 16)
	copy(array, u[:])
	swapGUIDOrder(array)
	return array, nil
}

// GUIDFromByteArray is the reverse of GUIDToByteArray
func GUIDFromByteArray(array []byte) (string, error) {
	if len(array) != 16 {
		return "", fmt.Errorf("Invalid GUID length %d", len(array))
	}
	var u uuid.UUID
	copy(u[:], array)
	swapGUIDOrder(u[:])
	return strings.ToUpper(u.String()), nil
}

// the first three GUID fields are stored little-endian on the wire
func swapGUIDOrder(b []byte) {
	b[0], b[1], b[2], b[3] = b[3], b[2], b[1], b[0]
	b[4], b[5] = b[5], b[4]
	b[6], b[7] = b[7], b[6]
}
