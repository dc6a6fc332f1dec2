// Package msgs defines the messages exchanged with rmlinkd over MQTT.
//
// Every payload is a Typed envelope carrying a type ID and the protobuf
// encoding of the message. Events flow from the daemon, commands flow
// towards it and are answered with CommandOK or CommandErr.
package msgs
