package event

import (
	"reflect"
	"sort"
	"sync"
)

var (
	registryOnce  sync.Once
	nameToType    = make(map[string]EventType)
	typeToName    = make(map[EventType]string)
	typeToPayload = make(map[EventType]reflect.Type)
)

// RegisterType maps a string name to an EventType and its payload struct type
// payloadInstance should be a pointer to the payload struct; nil if the event has none
func RegisterType(name string, et EventType, payloadInstance any) {
	nameToType[name] = et
	typeToName[et] = name
	if payloadInstance != nil {
		t := reflect.TypeOf(payloadInstance)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		typeToPayload[et] = t
	}
}

// GetEventType returns the EventType for a given name
func GetEventType(name string) (EventType, bool) {
	InitRegistry()
	et, ok := nameToType[name]
	return et, ok
}

// GetEventName returns the string name for an EventType
func GetEventName(et EventType) string {
	InitRegistry()
	if name, ok := typeToName[et]; ok {
		return name
	}
	return "EventUnknown"
}

// EventNames lists all registered names, sorted
func EventNames() []string {
	InitRegistry()
	names := make([]string, 0, len(nameToType))
	for n := range nameToType {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewPayloadStruct returns a pointer to a zero-value payload struct for the event type
// Returns nil if no payload is registered
func NewPayloadStruct(et EventType) any {
	InitRegistry()
	t, ok := typeToPayload[et]
	if !ok {
		return nil
	}
	return reflect.New(t).Interface()
}

// InitRegistry populates the registry with all simulation events; idempotent
func InitRegistry() {
	registryOnce.Do(func() {
		RegisterType("EventTick", EventTick, nil)

		// Launch site
		RegisterType("EventClusterLaunchRequest", EventClusterLaunchRequest, &LaunchRequestPayload{})
		RegisterType("EventClusterLaunched", EventClusterLaunched, &ClusterLaunchedPayload{})
		RegisterType("EventMissileCancelRequest", EventMissileCancelRequest, &MissileCancelPayload{})
		RegisterType("EventSiteClear", EventSiteClear, nil)

		// Missile notifications
		RegisterType("EventMissileEmission", EventMissileEmission, &EmissionPayload{})
		RegisterType("EventMissileIgnition", EventMissileIgnition, &MissileIgnitionPayload{})
		RegisterType("EventMissileHit", EventMissileHit, &MissileHitPayload{})
		RegisterType("EventMissileRetired", EventMissileRetired, &MissileRetiredPayload{})

		// Targets
		RegisterType("EventTargetSpawnRequest", EventTargetSpawnRequest, &TargetSpawnPayload{})
		RegisterType("EventTargetDestroyRequest", EventTargetDestroyRequest, &TargetDestroyPayload{})
		RegisterType("EventTargetDestroyed", EventTargetDestroyed, &TargetDestroyedPayload{})

		// Audio
		RegisterType("EventSoundRequest", EventSoundRequest, &SoundRequestPayload{})
	})
}
