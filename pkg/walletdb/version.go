package walletdb

// Version is the release version of the walletdb module.
const Version = "0.1.0"
