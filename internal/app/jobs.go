package app

import (
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/pkg/metrics"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
		go a.SchedProcessMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@every 10m", func() {
		a.SchedEvictIdleCarts()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedClearExpireData()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("0 0 * * * *", func() {
		a.SchedReminderSweep()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.SetGauge("system_cpuuse", int64(_cpuuse[0]*100)) // Store as percentage * 100
	}

	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.SetGauge("system_memuse", int64(_meminfo.Used/1024/1024))
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return
	}

	cpuuse, err := p.CPUPercent()
	if err == nil {
		metrics.SetGauge("vetstore_cpuuse", int64(cpuuse*100)) // Store as percentage * 100
	}

	meminfo, err := p.MemoryInfo()
	if err == nil {
		metrics.SetGauge("vetstore_memuse", int64(meminfo.RSS/1024/1024))
	}
}

// SchedEvictIdleCarts drops carts idle past the configured window.
func (a *Application) SchedEvictIdleCarts() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	idleMinutes := a.configManager.GetInt("store", "cart_idle_minutes")
	if idleMinutes <= 0 {
		idleMinutes = 120
	}
	if n := a.cartService.EvictIdle(time.Duration(idleMinutes) * time.Minute); n > 0 {
		zap.L().Info("evicted idle carts", zap.Int("count", n))
	}
}

// SchedReminderSweep runs hourly and fires the reminder fanout once a
// day, at the hour picked by the notify.reminder_hour setting.
func (a *Application) SchedReminderSweep() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	var ns notifySettings
	if err := a.configManager.Decode("notify", &ns); err != nil {
		zap.L().Error("notify settings decode failed", zap.Error(err))
		return
	}
	if ns.ReminderHour <= 0 {
		ns.ReminderHour = 18
	}
	if time.Now().Hour() != ns.ReminderHour {
		return
	}
	if err := a.RunReminderSweep(); err != nil {
		zap.L().Error("reminder sweep failed", zap.Error(err))
	}
}

func (a *Application) SchedClearExpireData() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	// Clean operation logs
	a.gormDB.
		Where("opt_time < ? ", time.Now().
			Add(-time.Hour*24*365)).Delete(domain.SysOprLog{})

	// Clean read notifications
	var ns notifySettings
	if err := a.configManager.Decode("notify", &ns); err != nil {
		zap.L().Error("notify settings decode failed", zap.Error(err))
		return
	}
	if ns.KeepDays <= 0 {
		ns.KeepDays = 90
	}
	a.gormDB.
		Where("read = ? AND created_at < ?", true, time.Now().
			Add(-time.Hour*24*time.Duration(ns.KeepDays))).Delete(domain.Notification{})
}
