package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysAccount{},
	&SysOprLog{},
	&Notification{},
	// Clinic
	&Client{},
	&Employee{},
	&Pet{},
	&Appointment{},
	// Store
	&Product{},
	&InventoryUsage{},
	&Sale{},
	&SaleLine{},
}
