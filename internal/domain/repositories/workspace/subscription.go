package workspace

// Unsubscribe cancels a realtime subscription. It is safe to call more than
// once; after it returns no further snapshots are delivered.
type Unsubscribe func()
